package api

import (
	"breadstation_server/api/admin"
	"breadstation_server/api/carts"
	"breadstation_server/api/catalog"
	"breadstation_server/api/debug"
	"breadstation_server/api/delivery"
	"breadstation_server/api/health"
	"breadstation_server/api/middleware"
	"breadstation_server/config"
	"breadstation_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// App builds the HTTP handler on top of the wired services
func App(sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	logLevel := gecho.ParseLogLevel(config.GetLogLevel())
	mwLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(logLevel)))
	standardLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(true), gecho.WithLogLevel(logLevel)))

	cfg := config.GetConfig()

	mw := middleware.NewMiddleware(cfg, mwLogger, sm.AuthService, sm.CacheService)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(cfg.Server.MaxUploadBytes))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.SetupLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware)

	// CORS before the origin guard so preflights are answered
	r.Use(mw.SetupCORS().Handler)
	r.Use(mw.OriginGuard())
	r.Use(mw.RateLimitMiddleware())

	NewRouterManager(
		catalog.NewCatalogRoutesManager(standardLogger, sm.CategoryService, sm.ProductService, sm.BundleService, sm.SitemapService),
		carts.NewCartRoutesManager(standardLogger, sm.CartService, sm.CheckoutService),
		delivery.NewDeliveryRoutesManager(standardLogger, sm.DeliveryService, sm.CartService.Rules()),
		health.NewHealthRoutesManager(standardLogger, sm.HealthService),
		admin.NewAdminRoutesManager(standardLogger, sm, mw, cfg.Server.MaxUploadBytes),
		debug.NewDebugRoutesManager(standardLogger, sm.CacheService),
	).RegisterRoutes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the Bread Station API"),
			gecho.Send(),
		)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}
