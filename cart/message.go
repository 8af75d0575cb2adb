package cart

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Customer struct {
	Name  string `json:"name" validate:"required,max=120"`
	Phone string `json:"phone" validate:"required,min=9,max=20"`
	Notes string `json:"notes" validate:"max=1000"`
}

var zoneLabels = map[Zone]string{
	ZonePickup:      "איסוף עצמי",
	ZoneAkko:        "משלוח בעכו",
	ZoneOutsideAkko: "משלוח מחוץ לעכו",
}

func (z Zone) Label() string {
	if l, ok := zoneLabels[z]; ok {
		return l
	}
	return string(z)
}

// Order is everything a checkout hands over to the shop. It is never stored.
type Order struct {
	Reference string
	Customer  Customer
	Delivery  Delivery
	Quote     Quote
}

// ValidateCheckout refuses empty carts and incomplete logistics
func (r Rules) ValidateCheckout(c *Cart, customer Customer, now time.Time) error {
	if c == nil || c.IsEmpty() {
		return ErrEmptyCart
	}
	if strings.TrimSpace(customer.Name) == "" || strings.TrimSpace(customer.Phone) == "" {
		return ErrMissingCustomer
	}
	return r.ValidateDelivery(c.Delivery, now)
}

// NewOrder validates the cart and freezes its quote under a reference code
func (r Rules) NewOrder(c *Cart, customer Customer, reference string, now time.Time) (*Order, error) {
	if err := r.ValidateCheckout(c, customer, now); err != nil {
		return nil, err
	}
	return &Order{
		Reference: reference,
		Customer:  customer,
		Delivery:  c.Delivery,
		Quote:     r.Quote(c, now),
	}, nil
}

// Message renders the order as the Hebrew text sent to the shop
func (o *Order) Message(currency string) string {
	money := func(v string) string { return currency + v }

	var b strings.Builder
	fmt.Fprintf(&b, "הזמנה חדשה %s\n", o.Reference)
	fmt.Fprintf(&b, "שם: %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "טלפון: %s\n\n", o.Customer.Phone)

	b.WriteString("פריטים:\n")
	for _, l := range o.Quote.Lines {
		fmt.Fprintf(&b, "• %s x%d", l.Name, l.Quantity)
		if len(l.Options) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(l.Options, ", "))
		}
		fmt.Fprintf(&b, " - %s\n", money(l.LineTotal.StringFixed(2)))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "סכום ביניים: %s\n", money(o.Quote.Subtotal.StringFixed(2)))
	fmt.Fprintf(&b, "דמי משלוח: %s\n", money(o.Quote.DeliveryFee.StringFixed(2)))
	fmt.Fprintf(&b, "לפני מע\"מ: %s\n", money(o.Quote.PreTax.StringFixed(2)))
	fmt.Fprintf(&b, "מע\"מ: %s\n", money(o.Quote.Tax.StringFixed(2)))
	fmt.Fprintf(&b, "סה\"כ לתשלום: %s\n\n", money(o.Quote.Total.StringFixed(2)))

	fmt.Fprintf(&b, "תאריך: %s\n", o.Delivery.Date)
	fmt.Fprintf(&b, "שעה: %s\n", o.Delivery.TimeSlot)
	fmt.Fprintf(&b, "אופן קבלה: %s\n", o.Delivery.Location.Label())
	if o.Delivery.Location != ZonePickup {
		fmt.Fprintf(&b, "כתובת: %s\n", o.Delivery.Address())
	}
	if n := strings.TrimSpace(o.Delivery.Notes); n != "" {
		fmt.Fprintf(&b, "הערות למשלוח: %s\n", n)
	}
	if n := strings.TrimSpace(o.Customer.Notes); n != "" {
		fmt.Fprintf(&b, "הערות: %s\n", n)
	}
	return b.String()
}

// WhatsAppLink builds the click-to-chat deep link with the message pre-filled
func WhatsAppLink(phone, message string) string {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + text
}
