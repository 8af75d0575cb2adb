// Package cart holds the shopping cart value and the pricing rules applied to it.
// Nothing in here touches storage or HTTP; callers load a Cart through a Session
// and persist it again after every mutation.
package cart

import (
	"encoding/hex"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrLineNotFound     = errors.New("cart line not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrOutOfServiceArea = errors.New("address is outside the delivery area")
	ErrInvalidZone      = errors.New("unknown delivery location")
	ErrDateTooEarly     = errors.New("delivery date is before the earliest allowed date")
	ErrInvalidDate      = errors.New("delivery date must be in the format YYYY-MM-DD")
	ErrInvalidTimeSlot  = errors.New("unknown delivery time slot")
	ErrMissingAddress   = errors.New("delivery address is required")
	ErrMissingLocation  = errors.New("delivery location is required")
	ErrInvalidQuantity  = errors.New("quantity must be between 1 and 999")
	ErrMissingCustomer  = errors.New("customer name and phone are required")
)

// MaxLineQuantity bounds a single line, including quantities merged by Add
const MaxLineQuantity = 999

// Option is a selected product option, copied from the catalog at the time it was added
type Option struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

type Line struct {
	ID           string          `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug,omitempty"`
	UnitLabel    string          `json:"unit_label,omitempty"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Quantity     int             `json:"quantity"`
	Options      []Option        `json:"options"`
	PrepTimeDays int             `json:"prep_time_days"`
	ImageURL     *string         `json:"image_url,omitempty"`
}

// Delivery carries the order-level logistics chosen by the customer
type Delivery struct {
	Date        string   `json:"date,omitempty"` // YYYY-MM-DD
	TimeSlot    string   `json:"time_slot,omitempty"`
	Location    Zone     `json:"location,omitempty"`
	City        string   `json:"city,omitempty"`
	Street      string   `json:"street,omitempty"`
	HouseNumber string   `json:"house_number,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
}

// Address joins the street parts the way they are written on an envelope
func (d Delivery) Address() string {
	street := strings.TrimSpace(strings.TrimSpace(d.Street) + " " + strings.TrimSpace(d.HouseNumber))
	parts := make([]string, 0, 2)
	if street != "" {
		parts = append(parts, street)
	}
	if c := strings.TrimSpace(d.City); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, ", ")
}

type Cart struct {
	Lines     []Line    `json:"lines"`
	Delivery  Delivery  `json:"delivery"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New() *Cart {
	return &Cart{Lines: []Line{}}
}

// LineID derives the identity of a line from its product and option set. Two
// lines with the same product and the same options, in any order, share an id.
func LineID(productID uuid.UUID, options []Option) string {
	keys := make([]string, 0, len(options))
	for _, o := range options {
		keys = append(keys, o.ID.String()+"|"+o.Name+"|"+o.PriceModifier.String())
	}
	slices.Sort(keys)

	h, _ := blake2b.New(16, nil)
	h.Write([]byte(productID.String()))
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Add merges the line into an existing one with the same product and option set,
// or appends it. The stored line is returned.
func (c *Cart) Add(line Line) (Line, error) {
	if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
		return Line{}, ErrInvalidQuantity
	}
	line.ID = LineID(line.ProductID, line.Options)
	if line.Options == nil {
		line.Options = []Option{}
	}

	for i := range c.Lines {
		if c.Lines[i].ID == line.ID {
			if c.Lines[i].Quantity+line.Quantity > MaxLineQuantity {
				return Line{}, ErrInvalidQuantity
			}
			c.Lines[i].Quantity += line.Quantity
			c.touch()
			return c.Lines[i], nil
		}
	}

	c.Lines = append(c.Lines, line)
	c.touch()
	return line, nil
}

// Remove drops the line and reports whether it existed
func (c *Cart) Remove(id string) bool {
	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}
	c.Lines = slices.Delete(c.Lines, idx, idx+1)
	c.touch()
	return true
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less removes it.
func (c *Cart) UpdateQuantity(id string, quantity int) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrLineNotFound
	}
	if quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	if quantity <= 0 {
		c.Lines = slices.Delete(c.Lines, idx, idx+1)
	} else {
		c.Lines[idx].Quantity = quantity
	}
	c.touch()
	return nil
}

// Clear empties the lines and every delivery field
func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.Delivery = Delivery{}
	c.touch()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns a copy of the line with the given id
func (c *Cart) Line(id string) (Line, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return Line{}, false
	}
	return c.Lines[idx], true
}

// EffectiveUnitPrice is the base price plus the largest selected modifier.
// Modifiers never stack; with no options the base price is returned unchanged.
func EffectiveUnitPrice(line Line) decimal.Decimal {
	if len(line.Options) == 0 {
		return line.BasePrice
	}
	maxModifier := line.Options[0].PriceModifier
	for _, o := range line.Options[1:] {
		if o.PriceModifier.GreaterThan(maxModifier) {
			maxModifier = o.PriceModifier
		}
	}
	return line.BasePrice.Add(maxModifier)
}

func LineTotal(line Line) decimal.Decimal {
	return EffectiveUnitPrice(line).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// Total sums the line totals, before any delivery fee
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(LineTotal(l))
	}
	return total
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// MaxPrepDays is the longest preparation time of any line
func (c *Cart) MaxPrepDays() int {
	maxDays := 0
	for _, l := range c.Lines {
		maxDays = max(maxDays, l.PrepTimeDays)
	}
	return maxDays
}

// Clone returns a deep copy safe to hand to another goroutine
func (c *Cart) Clone() *Cart {
	out := &Cart{
		Lines:     make([]Line, len(c.Lines)),
		Delivery:  c.Delivery,
		UpdatedAt: c.UpdatedAt,
	}
	for i, l := range c.Lines {
		l.Options = slices.Clone(l.Options)
		out.Lines[i] = l
	}
	if c.Delivery.DistanceKm != nil {
		d := *c.Delivery.DistanceKm
		out.Delivery.DistanceKm = &d
	}
	return out
}

func (c *Cart) indexOf(id string) int {
	return slices.IndexFunc(c.Lines, func(l Line) bool { return l.ID == id })
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
