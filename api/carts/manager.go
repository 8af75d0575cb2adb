package carts

import (
	"breadstation_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CartRoutesManager struct {
	logger          *gecho.Logger
	cartService     *services.CartService
	checkoutService *services.CheckoutService
}

func NewCartRoutesManager(logger *gecho.Logger, cartService *services.CartService, checkoutService *services.CheckoutService) *CartRoutesManager {
	return &CartRoutesManager{
		logger:          logger,
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

func (crm *CartRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", crm.GetCart)
		r.Delete("/", crm.ClearCart)

		r.Post("/items", crm.AddItem)
		r.Patch("/items/{id}", crm.UpdateItem)
		r.Delete("/items/{id}", crm.RemoveItem)

		r.Put("/delivery", crm.SetDelivery)

		r.Get("/quote", crm.GetQuote)
		r.Post("/quote", crm.QuoteClientCart)

		r.Post("/checkout", crm.CheckoutSessionCart)
	})

	r.Post("/checkout", crm.CheckoutClientCart)
}
