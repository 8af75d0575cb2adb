package services

import (
	"breadstation_server/cart"
	"breadstation_server/lib"
	"breadstation_server/structs"
	"context"
	"time"

	"github.com/MonkyMars/gecho"
)

const notificationTimeout = 15 * time.Second

type CheckoutRequest struct {
	Customer cart.Customer `json:"customer"`
}

// ClientCheckoutRequest checks out a browser-held cart
type ClientCheckoutRequest struct {
	Cart     ClientCart    `json:"cart"`
	Customer cart.Customer `json:"customer"`
}

type CheckoutResult struct {
	Reference   string     `json:"reference"`
	Message     string     `json:"message"`
	WhatsAppURL string     `json:"whatsapp_url"`
	Quote       cart.Quote `json:"quote"`
}

// Notifier receives a copy of every order handed over to WhatsApp
type Notifier interface {
	SendOrderNotification(ctx context.Context, order *cart.Order, message, whatsappURL string) error
}

// CheckoutService turns a cart into a WhatsApp message. Orders are not stored.
type CheckoutService struct {
	logger   *gecho.Logger
	store    *structs.StoreConfig
	rules    cart.Rules
	notifier Notifier
	now      func() time.Time
}

func NewCheckoutService(logger *gecho.Logger, store *structs.StoreConfig, rules cart.Rules, notifier Notifier) *CheckoutService {
	return &CheckoutService{
		logger:   logger,
		store:    store,
		rules:    rules,
		notifier: notifier,
		now:      time.Now,
	}
}

func (cs *CheckoutService) Checkout(ctx context.Context, c *cart.Cart, customer cart.Customer) (*CheckoutResult, error) {
	if c == nil || c.IsEmpty() {
		return nil, cart.ErrEmptyCart
	}
	if err := lib.ValidateStruct(customer); err != nil {
		return nil, err
	}

	order, err := cs.rules.NewOrder(c, customer, lib.GenerateOrderReference(), cs.now())
	if err != nil {
		return nil, err
	}

	message := order.Message(cs.store.Currency)
	link := cart.WhatsAppLink(cs.store.WhatsAppPhone, message)

	cs.logger.Info("Checkout handed to WhatsApp",
		gecho.Field("reference", order.Reference),
		gecho.Field("items", order.Quote.Items),
		gecho.Field("total", order.Quote.Total.StringFixed(2)),
		gecho.Field("zone", order.Delivery.Location),
	)

	CheckoutsTotal.WithLabelValues(string(order.Delivery.Location)).Inc()

	if cs.notifier != nil {
		go cs.notify(context.WithoutCancel(ctx), order, message, link)
	}

	return &CheckoutResult{
		Reference:   order.Reference,
		Message:     message,
		WhatsAppURL: link,
		Quote:       order.Quote,
	}, nil
}

func (cs *CheckoutService) notify(ctx context.Context, order *cart.Order, message, link string) {
	ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
	defer cancel()

	if err := cs.notifier.SendOrderNotification(ctx, order, message, link); err != nil {
		cs.logger.Warn("Order notification failed",
			gecho.Field("reference", order.Reference),
			gecho.Field("error", err),
		)
	}
}
