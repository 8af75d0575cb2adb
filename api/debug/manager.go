package debug

import (
	"breadstation_server/config"
	"breadstation_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	logger       *gecho.Logger
	cacheService *services.CacheService
}

func NewDebugRoutesManager(logger *gecho.Logger, cacheService *services.CacheService) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger:       logger,
		cacheService: cacheService,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// only outside production
	if config.IsProduction() {
		return
	}

	r.Route("/debug", func(r chi.Router) {
		r.Get("/cache/stats", drm.CacheStats)
		r.Get("/ratelimit/{bucket}", drm.RateLimitStatus)
		r.Post("/cache/clear", drm.ClearCache)
		r.Post("/cache/catalog/clear", drm.ClearCatalogCache)
	})
}
