package delivery

import (
	"breadstation_server/cart"
	"breadstation_server/services"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DeliveryRoutesManager struct {
	logger          *gecho.Logger
	deliveryService *services.DeliveryService
	rules           cart.Rules
	now             func() time.Time
}

func NewDeliveryRoutesManager(logger *gecho.Logger, deliveryService *services.DeliveryService, rules cart.Rules) *DeliveryRoutesManager {
	return &DeliveryRoutesManager{
		logger:          logger,
		deliveryService: deliveryService,
		rules:           rules,
		now:             time.Now,
	}
}

func (drm *DeliveryRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/delivery", func(r chi.Router) {
		r.Post("/resolve", drm.ResolveAddress)
		r.Get("/slots", drm.FetchSlots)
	})
}
