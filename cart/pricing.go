package cart

import (
	"breadstation_server/structs"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Zone string

const (
	ZonePickup      Zone = "pickup"
	ZoneAkko        Zone = "akko"
	ZoneOutsideAkko Zone = "outside-akko"
)

func (z Zone) Valid() bool {
	switch z {
	case ZonePickup, ZoneAkko, ZoneOutsideAkko:
		return true
	}
	return false
}

// TimeSlots are the delivery windows the shop works in
var TimeSlots = []string{
	"08:00-10:00",
	"10:00-12:00",
	"12:00-14:00",
	"14:00-16:00",
	"16:00-18:00",
	"18:00-20:00",
	"20:00-22:00",
}

const DateLayout = "2006-01-02"

// Rules are the shop's pricing and logistics constants
type Rules struct {
	RemoteFee       decimal.Decimal
	VATRate         decimal.Decimal
	LocalRadiusKm   float64
	ServiceRadiusKm float64
	LeadTime        time.Duration
	Location        *time.Location
}

func DefaultRules() Rules {
	return Rules{
		RemoteFee:       decimal.NewFromInt(50),
		VATRate:         decimal.RequireFromString("0.18"),
		LocalRadiusKm:   15,
		ServiceRadiusKm: 50,
		LeadTime:        48 * time.Hour,
		Location:        shopLocation(),
	}
}

func RulesFromConfig(cfg *structs.StoreConfig) Rules {
	rules := DefaultRules()
	if cfg == nil {
		return rules
	}
	rules.RemoteFee = decimal.NewFromFloat(cfg.RemoteDeliveryFee)
	rules.VATRate = decimal.NewFromFloat(cfg.VATRate)
	rules.LocalRadiusKm = cfg.LocalRadiusKm
	rules.ServiceRadiusKm = cfg.ServiceRadiusKm
	if cfg.LeadTime > 0 {
		rules.LeadTime = cfg.LeadTime
	}
	return rules
}

func shopLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		return time.FixedZone("IST", 2*60*60)
	}
	return loc
}

// DeliveryFee returns the fee for a zone. An unset zone costs nothing until one is chosen.
func (r Rules) DeliveryFee(zone Zone) decimal.Decimal {
	if zone == ZoneOutsideAkko {
		return r.RemoteFee
	}
	return decimal.Zero
}

// SplitVAT decomposes a VAT-inclusive amount. Pre-tax is rounded to agorot and
// tax takes the remainder so the two always add back to gross.
func (r Rules) SplitVAT(gross decimal.Decimal) (preTax, tax decimal.Decimal) {
	divisor := decimal.NewFromInt(1).Add(r.VATRate)
	preTax = gross.DivRound(divisor, 2)
	tax = gross.Sub(preTax)
	return preTax, tax
}

// ClassifyDistance maps a driving distance to a zone. The local radius is inclusive.
func (r Rules) ClassifyDistance(km float64) (Zone, error) {
	switch {
	case km < 0:
		return "", fmt.Errorf("invalid distance %.2f", km)
	case km <= r.LocalRadiusKm:
		return ZoneAkko, nil
	case km <= r.ServiceRadiusKm:
		return ZoneOutsideAkko, nil
	default:
		return "", fmt.Errorf("%w: %.1f km", ErrOutOfServiceArea, km)
	}
}

// MinDeliveryDate is the calendar day, in shop time, of now plus the lead time
func (r Rules) MinDeliveryDate(now time.Time) time.Time {
	t := now.In(r.loc()).Add(r.LeadTime)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.loc())
}

// ParseDeliveryDate parses a YYYY-MM-DD date and rejects days before the minimum
func (r Rules) ParseDeliveryDate(value string, now time.Time) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, r.loc())
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if d.Before(r.MinDeliveryDate(now)) {
		return time.Time{}, fmt.Errorf("%w (%s)", ErrDateTooEarly, r.MinDeliveryDate(now).Format(DateLayout))
	}
	return d, nil
}

func ValidTimeSlot(slot string) bool {
	return slices.Contains(TimeSlots, slot)
}

func (r Rules) loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

type LineQuote struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Options   []string        `json:"options"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Quote struct {
	Lines           []LineQuote     `json:"lines"`
	Items           int             `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Total           decimal.Decimal `json:"total"`
	PreTax          decimal.Decimal `json:"pre_tax"`
	Tax             decimal.Decimal `json:"tax"`
	Zone            Zone            `json:"zone,omitempty"`
	MinDeliveryDate string          `json:"min_delivery_date"`
	MaxPrepDays     int             `json:"max_prep_days"`
}

// Quote prices the cart as it stands, including the delivery fee of its zone
func (r Rules) Quote(c *Cart, now time.Time) Quote {
	q := Quote{
		Lines:           make([]LineQuote, 0, len(c.Lines)),
		Items:           c.TotalItems(),
		Subtotal:        c.Total(),
		DeliveryFee:     r.DeliveryFee(c.Delivery.Location),
		Zone:            c.Delivery.Location,
		MinDeliveryDate: r.MinDeliveryDate(now).Format(DateLayout),
		MaxPrepDays:     c.MaxPrepDays(),
	}
	for _, l := range c.Lines {
		names := make([]string, 0, len(l.Options))
		for _, o := range l.Options {
			names = append(names, o.Name)
		}
		q.Lines = append(q.Lines, LineQuote{
			ID:        l.ID,
			Name:      l.ProductName,
			Options:   names,
			Quantity:  l.Quantity,
			UnitPrice: EffectiveUnitPrice(l),
			LineTotal: LineTotal(l),
		})
	}
	q.Total = q.Subtotal.Add(q.DeliveryFee)
	q.PreTax, q.Tax = r.SplitVAT(q.Total)
	return q
}

// ValidateDelivery checks the delivery fields a checkout depends on
func (r Rules) ValidateDelivery(d Delivery, now time.Time) error {
	if d.Location == "" {
		return ErrMissingLocation
	}
	if !d.Location.Valid() {
		return ErrInvalidZone
	}
	if _, err := r.ParseDeliveryDate(d.Date, now); err != nil {
		return err
	}
	if !ValidTimeSlot(d.TimeSlot) {
		return ErrInvalidTimeSlot
	}
	if d.Location != ZonePickup && (d.City == "" || d.Street == "") {
		return ErrMissingAddress
	}
	return nil
}
