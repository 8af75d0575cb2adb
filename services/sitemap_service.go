package services

import (
	"breadstation_server/structs"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

var staticPages = []string{"", "/about", "/events", "/cart"}

// SitemapService lists every public page for sitemap generation
type SitemapService struct {
	logger     *gecho.Logger
	baseURL    string
	categories CategoryStore
	products   ProductStore
	bundles    BundleStore
}

func NewSitemapService(logger *gecho.Logger, baseURL string, categories CategoryStore, products ProductStore, bundles BundleStore) *SitemapService {
	return &SitemapService{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		categories: categories,
		products:   products,
		bundles:    bundles,
	}
}

// Entries returns the static pages, all categories and the active products and bundles
func (ss *SitemapService) Entries(ctx context.Context) ([]structs.SitemapEntry, error) {
	now := time.Now().UTC()

	categories, err := ss.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	products, err := ss.products.ListActiveProductSlugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	bundles, err := ss.bundles.ListBundles(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}

	entries := make([]structs.SitemapEntry, 0, len(staticPages)+len(categories)+len(products)+len(bundles))
	for _, path := range staticPages {
		entries = append(entries, structs.SitemapEntry{Kind: "page", Slug: strings.TrimPrefix(path, "/"), URL: ss.baseURL + path, LastModified: now})
	}
	for _, c := range categories {
		entries = append(entries, ss.entry("category", "/categories/", c.Slug, c.UpdatedAt, now))
	}
	for _, p := range products {
		entries = append(entries, ss.entry("product", "/products/", p.Slug, p.UpdatedAt, now))
	}
	for _, b := range bundles {
		entries = append(entries, ss.entry("bundle", "/bundles/", b.Slug, b.UpdatedAt, now))
	}

	ss.logger.Debug("Sitemap generated", gecho.Field("entries", len(entries)))
	return entries, nil
}

func (ss *SitemapService) entry(kind, prefix, slug string, updated, fallback time.Time) structs.SitemapEntry {
	if updated.IsZero() {
		updated = fallback
	}
	return structs.SitemapEntry{Kind: kind, Slug: slug, URL: ss.baseURL + prefix + slug, LastModified: updated}
}
