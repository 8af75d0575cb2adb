package api

import (
	"breadstation_server/api/admin"
	"breadstation_server/api/carts"
	"breadstation_server/api/catalog"
	"breadstation_server/api/debug"
	"breadstation_server/api/delivery"
	"breadstation_server/api/health"

	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	catalogRoutes  *catalog.CatalogRoutesManager
	cartRoutes     *carts.CartRoutesManager
	deliveryRoutes *delivery.DeliveryRoutesManager
	healthRoutes   *health.HealthRoutesManager
	adminRoutes    *admin.AdminRoutesManager
	debugRoutes    *debug.DebugRoutesManager
}

func NewRouterManager(
	catalogRoutes *catalog.CatalogRoutesManager,
	cartRoutes *carts.CartRoutesManager,
	deliveryRoutes *delivery.DeliveryRoutesManager,
	healthRoutes *health.HealthRoutesManager,
	adminRoutes *admin.AdminRoutesManager,
	debugRoutes *debug.DebugRoutesManager,
) *routerManager {
	return &routerManager{
		catalogRoutes:  catalogRoutes,
		cartRoutes:     cartRoutes,
		deliveryRoutes: deliveryRoutes,
		healthRoutes:   healthRoutes,
		adminRoutes:    adminRoutes,
		debugRoutes:    debugRoutes,
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.catalogRoutes.RegisterRoutes(r)
	rm.cartRoutes.RegisterRoutes(r)
	rm.deliveryRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
