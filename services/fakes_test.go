package services

import (
	"breadstation_server/database"
	"breadstation_server/lib"
	"breadstation_server/structs/tables"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

var testLogger = gecho.NewDefaultLogger()

// memoryCatalog is an in-memory stand-in for CatalogRepository
type memoryCatalog struct {
	mu         sync.Mutex
	categories []tables.Category
	products   []tables.Product
	bundles    []tables.Bundle

	failCreateProductAfter int // 0 disables
	createdProducts        int
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{}
}

func (m *memoryCatalog) ListCategories(context.Context) ([]tables.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.categories)
	slices.SortStableFunc(out, func(a, b tables.Category) int { return a.DisplayOrder - b.DisplayOrder })
	return out, nil
}

func (m *memoryCatalog) GetCategoryBySlug(_ context.Context, slug string) (*tables.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, lib.ErrNotFound
}

func (m *memoryCatalog) GetCategoryByID(_ context.Context, id uuid.UUID) (*tables.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, lib.ErrNotFound
}

func (m *memoryCatalog) CategorySlugTaken(_ context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.categories, func(c tables.Category) bool {
		return c.Slug == slug && c.ID != exceptID
	}), nil
}

func (m *memoryCatalog) CreateCategory(_ context.Context, c *tables.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.categories = append(m.categories, *c)
	return nil
}

func (m *memoryCatalog) UpdateCategory(_ context.Context, c *tables.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.categories {
		if m.categories[i].ID == c.ID {
			m.categories[i] = *c
			return nil
		}
	}
	return lib.ErrNotFound
}

func (m *memoryCatalog) DeleteCategory(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories = slices.Delete(m.categories, i, i+1)
			return nil
		}
	}
	return lib.ErrNotFound
}

func (m *memoryCatalog) CountProductsInCategory(_ context.Context, id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.products {
		if p.CategoryID == id {
			n++
		}
	}
	return n, nil
}

func (m *memoryCatalog) UpsertCategoryBySlug(_ context.Context, c *tables.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.categories {
		if m.categories[i].Slug == c.Slug {
			m.categories[i].Name = c.Name
			*c = m.categories[i]
			return nil
		}
	}
	c.ID = uuid.New()
	m.categories = append(m.categories, *c)
	return nil
}

func (m *memoryCatalog) ListProducts(_ context.Context, opts *ProductListOptions) (*database.PaginationResult[tables.Product], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tables.Product
	for _, p := range m.products {
		if opts.IsActive != nil && p.IsActive != *opts.IsActive {
			continue
		}
		if opts.SearchTerm != "" && !strings.Contains(p.Name, opts.SearchTerm) {
			continue
		}
		out = append(out, p)
	}
	return &database.PaginationResult[tables.Product]{
		Data:       out,
		Pagination: database.Pagination{Page: opts.Page, PageSize: opts.PageSize, Total: len(out), TotalPages: 1},
	}, nil
}

func (m *memoryCatalog) ListActiveProductsByCategory(_ context.Context, categoryID uuid.UUID) ([]tables.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []tables.Product{}
	for _, p := range m.products {
		if p.CategoryID == categoryID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryCatalog) ListFeaturedProducts(_ context.Context, limit int) ([]tables.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []tables.Product{}
	for _, p := range m.products {
		if p.IsActive && p.IsFeatured && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryCatalog) ListActiveProductSlugs(context.Context) ([]tables.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []tables.Product{}
	for _, p := range m.products {
		if p.IsActive {
			out = append(out, tables.Product{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
		}
	}
	return out, nil
}

func (m *memoryCatalog) GetProductBySlug(_ context.Context, slug string) (*tables.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, lib.ErrNotFound
}

func (m *memoryCatalog) GetProductByID(_ context.Context, id uuid.UUID) (*tables.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, lib.ErrNotFound
}

func (m *memoryCatalog) ProductSlugTaken(_ context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.products, func(p tables.Product) bool {
		return p.Slug == slug && p.ID != exceptID
	}), nil
}

func (m *memoryCatalog) CreateProduct(_ context.Context, p *tables.Product, options []tables.ProductOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateProductAfter > 0 && m.createdProducts >= m.failCreateProductAfter {
		return errors.New("connection reset by peer")
	}
	if slices.ContainsFunc(m.products, func(e tables.Product) bool { return e.Slug == p.Slug }) {
		return lib.ErrConflict
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	for i := range options {
		options[i].ID = uuid.New()
		options[i].ProductID = p.ID
	}
	p.Options = options
	m.products = append(m.products, *p)
	m.createdProducts++
	return nil
}

func (m *memoryCatalog) ReplaceProduct(_ context.Context, p *tables.Product, options []tables.ProductOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == p.ID {
			for j := range options {
				options[j].ID = uuid.New()
				options[j].ProductID = p.ID
			}
			p.Options = options
			m.products[i] = *p
			return nil
		}
	}
	return lib.ErrNotFound
}

func (m *memoryCatalog) DeleteProduct(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = slices.Delete(m.products, i, i+1)
			return nil
		}
	}
	return lib.ErrNotFound
}

func (m *memoryCatalog) ListBundles(_ context.Context, activeOnly bool) ([]tables.Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []tables.Bundle{}
	for _, b := range m.bundles {
		if activeOnly && !b.IsActive {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memoryCatalog) GetBundleBySlug(_ context.Context, slug string) (*tables.Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bundles {
		if b.Slug == slug {
			return &b, nil
		}
	}
	return nil, lib.ErrNotFound
}

func (m *memoryCatalog) GetBundleByID(_ context.Context, id uuid.UUID) (*tables.Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bundles {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, lib.ErrNotFound
}

func (m *memoryCatalog) BundleSlugTaken(_ context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.bundles, func(b tables.Bundle) bool {
		return b.Slug == slug && b.ID != exceptID
	}), nil
}

func (m *memoryCatalog) CreateBundle(_ context.Context, b *tables.Bundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = uuid.New()
	m.bundles = append(m.bundles, *b)
	return nil
}

func (m *memoryCatalog) UpdateBundle(_ context.Context, b *tables.Bundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bundles {
		if m.bundles[i].ID == b.ID {
			m.bundles[i] = *b
			return nil
		}
	}
	return lib.ErrNotFound
}

func (m *memoryCatalog) DeleteBundle(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bundles {
		if m.bundles[i].ID == id {
			m.bundles = slices.Delete(m.bundles, i, i+1)
			return nil
		}
	}
	return lib.ErrNotFound
}

// memoryCache records invalidations and serves JSON round-trips like Redis would
type memoryCache struct {
	mu            sync.Mutex
	data          map[string][]byte
	invalidations []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	c.invalidations = append(c.invalidations, pattern)
	return nil
}
