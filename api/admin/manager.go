package admin

import (
	"breadstation_server/api/middleware"
	"breadstation_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger          *gecho.Logger
	productService  *services.ProductService
	categoryService *services.CategoryService
	bundleService   *services.BundleService
	importService   *services.ImportService
	authService     *services.AuthService
	mw              *middleware.Middleware
	maxUploadBytes  int64
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
	maxUploadBytes int64,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:          logger,
		productService:  sm.ProductService,
		categoryService: sm.CategoryService,
		bundleService:   sm.BundleService,
		importService:   sm.ImportService,
		authService:     sm.AuthService,
		mw:              mw,
		maxUploadBytes:  maxUploadBytes,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.AdminAuthMiddleware)

		r.Get("/me", ar.Me)

		r.Get("/products", ar.ListProducts)
		r.Get("/products/{id}", ar.GetProduct)
		r.Post("/products", ar.CreateProduct)
		r.Put("/products/{id}", ar.UpdateProduct)
		r.Delete("/products/{id}", ar.DeleteProduct)

		r.Get("/categories", ar.ListCategories)
		r.Post("/categories", ar.CreateCategory)
		r.Put("/categories/{id}", ar.UpdateCategory)
		r.Delete("/categories/{id}", ar.DeleteCategory)

		r.Get("/bundles", ar.ListBundles)
		r.Get("/bundles/{id}", ar.GetBundle)
		r.Post("/bundles", ar.CreateBundle)
		r.Put("/bundles/{id}", ar.UpdateBundle)
		r.Delete("/bundles/{id}", ar.DeleteBundle)

		r.Post("/import", ar.ImportCatalog)
	})
}
