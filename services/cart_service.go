package services

import (
	"breadstation_server/cart"
	"breadstation_server/lib"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type AddItemRequest struct {
	ProductID uuid.UUID   `json:"product_id" validate:"required"`
	OptionIDs []uuid.UUID `json:"option_ids"`
	Quantity  int         `json:"quantity" validate:"required,gte=1,lte=999"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"lte=999"`
}

// DeliveryRequest sets the order-level logistics. An address without a
// location is resolved through the maps API to fill the zone and address parts.
type DeliveryRequest struct {
	Date        string    `json:"date"`
	TimeSlot    string    `json:"time_slot"`
	Location    cart.Zone `json:"location"`
	Address     string    `json:"address" validate:"max=300"`
	City        string    `json:"city" validate:"max=120"`
	Street      string    `json:"street" validate:"max=200"`
	HouseNumber string    `json:"house_number" validate:"max=20"`
	Notes       string    `json:"notes" validate:"max=1000"`
}

// ClientCart is a cart held by the browser. Only ids and quantities are
// trusted; names and prices are read from the catalog.
type ClientCart struct {
	Lines    []AddItemRequest `json:"lines" validate:"dive"`
	Delivery DeliveryRequest  `json:"delivery"`
}

// CartView is what the storefront renders for a cart
type CartView struct {
	ID       string        `json:"id,omitempty"`
	Lines    []cart.Line   `json:"lines"`
	Delivery cart.Delivery `json:"delivery"`
	Quote    cart.Quote    `json:"quote"`
}

type CartService struct {
	logger   *gecho.Logger
	store    cart.Store
	products *ProductService
	delivery *DeliveryService
	rules    cart.Rules
	now      func() time.Time
}

func NewCartService(logger *gecho.Logger, store cart.Store, products *ProductService, delivery *DeliveryService, rules cart.Rules) *CartService {
	return &CartService{
		logger:   logger,
		store:    store,
		products: products,
		delivery: delivery,
		rules:    rules,
		now:      time.Now,
	}
}

func (cs *CartService) Rules() cart.Rules {
	return cs.rules
}

// Open loads the session cart, starting a new one for unknown ids
func (cs *CartService) Open(ctx context.Context, id string) (*cart.Session, error) {
	session, err := cart.Open(ctx, cs.store, id)
	if err != nil {
		cs.logger.Error("Failed to load cart", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return session, nil
}

func (cs *CartService) View(s *cart.Session) *CartView {
	return &CartView{
		ID:       s.ID,
		Lines:    s.Cart.Lines,
		Delivery: s.Cart.Delivery,
		Quote:    cs.rules.Quote(s.Cart, cs.now()),
	}
}

func (cs *CartService) AddItem(ctx context.Context, s *cart.Session, req *AddItemRequest) (cart.Line, error) {
	line, err := cs.products.ResolveLine(ctx, req.ProductID, req.OptionIDs, req.Quantity)
	if err != nil {
		return cart.Line{}, err
	}

	var stored cart.Line
	err = s.Mutate(ctx, func(c *cart.Cart) error {
		stored, err = c.Add(line)
		return err
	})
	return stored, err
}

// UpdateItem sets the quantity of a line; zero or less removes it
func (cs *CartService) UpdateItem(ctx context.Context, s *cart.Session, lineID string, quantity int) error {
	return s.Mutate(ctx, func(c *cart.Cart) error {
		return c.UpdateQuantity(lineID, quantity)
	})
}

func (cs *CartService) RemoveItem(ctx context.Context, s *cart.Session, lineID string) error {
	return s.Mutate(ctx, func(c *cart.Cart) error {
		if !c.Remove(lineID) {
			return cart.ErrLineNotFound
		}
		return nil
	})
}

func (cs *CartService) SetDelivery(ctx context.Context, s *cart.Session, req *DeliveryRequest) (*DeliveryResolution, error) {
	delivery, resolution, err := cs.buildDelivery(ctx, req)
	if err != nil {
		return nil, err
	}
	err = s.Mutate(ctx, func(c *cart.Cart) error {
		c.Delivery = delivery
		c.UpdatedAt = cs.now().UTC()
		return nil
	})
	return resolution, err
}

func (cs *CartService) Clear(ctx context.Context, s *cart.Session) error {
	return s.Clear(ctx)
}

// BuildClientCart prices a browser-held cart against the current catalog
func (cs *CartService) BuildClientCart(ctx context.Context, req *ClientCart) (*cart.Cart, error) {
	c := cart.New()
	for i, l := range req.Lines {
		line, err := cs.products.ResolveLine(ctx, l.ProductID, l.OptionIDs, l.Quantity)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		if _, err := c.Add(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
	}

	delivery, _, err := cs.buildDelivery(ctx, &req.Delivery)
	if err != nil {
		return nil, err
	}
	c.Delivery = delivery
	return c, nil
}

func (cs *CartService) QuoteClientCart(ctx context.Context, req *ClientCart) (*CartView, error) {
	c, err := cs.BuildClientCart(ctx, req)
	if err != nil {
		return nil, err
	}
	return &CartView{Lines: c.Lines, Delivery: c.Delivery, Quote: cs.rules.Quote(c, cs.now())}, nil
}

// buildDelivery validates the fields that are present. Completeness is only
// enforced at checkout.
func (cs *CartService) buildDelivery(ctx context.Context, req *DeliveryRequest) (cart.Delivery, *DeliveryResolution, error) {
	d := cart.Delivery{
		Date:        req.Date,
		TimeSlot:    req.TimeSlot,
		Location:    req.Location,
		City:        req.City,
		Street:      req.Street,
		HouseNumber: req.HouseNumber,
		Notes:       req.Notes,
	}

	if d.Date != "" {
		if _, err := cs.rules.ParseDeliveryDate(d.Date, cs.now()); err != nil {
			return d, nil, err
		}
	}
	if d.TimeSlot != "" && !cart.ValidTimeSlot(d.TimeSlot) {
		return d, nil, cart.ErrInvalidTimeSlot
	}
	if d.Location != "" && !d.Location.Valid() {
		return d, nil, cart.ErrInvalidZone
	}

	var resolution *DeliveryResolution
	if req.Address != "" && d.Location != cart.ZonePickup {
		if cs.delivery == nil {
			return d, nil, ErrMapsDisabled
		}
		res, err := cs.delivery.Resolve(ctx, req.Address)
		if err != nil {
			return d, nil, err
		}
		if d.Location != "" && d.Location != res.Zone {
			cs.logger.Debug("Requested zone overridden by distance",
				gecho.Field("requested", d.Location),
				gecho.Field("resolved", res.Zone),
			)
		}
		res.ApplyTo(&d)
		resolution = res
	}

	if d.Location == cart.ZonePickup {
		d.City, d.Street, d.HouseNumber, d.DistanceKm = "", "", "", nil
	}
	return d, resolution, nil
}

// IsCartError reports errors caused by the request rather than the server
func IsCartError(err error) bool {
	for _, target := range []error{
		cart.ErrLineNotFound, cart.ErrEmptyCart, cart.ErrOutOfServiceArea, cart.ErrInvalidZone,
		cart.ErrDateTooEarly, cart.ErrInvalidDate, cart.ErrInvalidTimeSlot, cart.ErrMissingAddress,
		cart.ErrMissingLocation, cart.ErrInvalidQuantity, cart.ErrMissingCustomer,
		lib.ErrProductInactive, lib.ErrTooManyOptions, lib.ErrUnknownOption,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
