package catalog

import (
	"breadstation_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// CatalogRoutesManager serves the public storefront reads
type CatalogRoutesManager struct {
	logger          *gecho.Logger
	categoryService *services.CategoryService
	productService  *services.ProductService
	bundleService   *services.BundleService
	sitemapService  *services.SitemapService
}

func NewCatalogRoutesManager(
	logger *gecho.Logger,
	categoryService *services.CategoryService,
	productService *services.ProductService,
	bundleService *services.BundleService,
	sitemapService *services.SitemapService,
) *CatalogRoutesManager {
	return &CatalogRoutesManager{
		logger:          logger,
		categoryService: categoryService,
		productService:  productService,
		bundleService:   bundleService,
		sitemapService:  sitemapService,
	}
}

func (crm *CatalogRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/categories", crm.FetchCategories)
	r.Get("/categories/{slug}", crm.FetchCategoryBySlug)

	r.Get("/products/featured", crm.FetchFeaturedProducts)
	r.Get("/products/{slug}", crm.FetchProductBySlug)

	r.Get("/bundles", crm.FetchBundles)
	r.Get("/bundles/{slug}", crm.FetchBundleBySlug)

	r.Get("/sitemap", crm.FetchSitemap)
}
