package catalog

import (
	"breadstation_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchCategories handles GET /categories
func (crm *CatalogRoutesManager) FetchCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := crm.categoryService.ListCategories(r.Context())
	if err != nil {
		handling.RespondError(err, "categories", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"categories": categories,
			"count":      len(categories),
		}),
		gecho.Send(),
	)
}

// FetchCategoryBySlug handles GET /categories/{slug} with the category's active products
func (crm *CatalogRoutesManager) FetchCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	page, err := crm.categoryService.GetCategoryPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handling.RespondError(err, "category", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(page),
		gecho.Send(),
	)
}

func (crm *CatalogRoutesManager) FetchFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := crm.productService.GetFeaturedProducts(r.Context())
	if err != nil {
		handling.RespondError(err, "featured products", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": products,
			"count":    len(products),
		}),
		gecho.Send(),
	)
}

// FetchProductBySlug handles GET /products/{slug}. Inactive products are 404.
func (crm *CatalogRoutesManager) FetchProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := crm.productService.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handling.RespondError(err, "product", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (crm *CatalogRoutesManager) FetchBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := crm.bundleService.GetActiveBundles(r.Context())
	if err != nil {
		handling.RespondError(err, "bundles", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"bundles": bundles,
			"count":   len(bundles),
		}),
		gecho.Send(),
	)
}

func (crm *CatalogRoutesManager) FetchBundleBySlug(w http.ResponseWriter, r *http.Request) {
	bundle, err := crm.bundleService.GetBundleBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handling.RespondError(err, "bundle", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(bundle),
		gecho.Send(),
	)
}

// FetchSitemap lists every public page for the frontend's sitemap generator
func (crm *CatalogRoutesManager) FetchSitemap(w http.ResponseWriter, r *http.Request) {
	entries, err := crm.sitemapService.Entries(r.Context())
	if err != nil {
		handling.RespondError(err, "sitemap", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"entries": entries,
			"count":   len(entries),
		}),
		gecho.Send(),
	)
}
