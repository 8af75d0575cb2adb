package services

import (
	"breadstation_server/database"
	"breadstation_server/lib"
	"breadstation_server/structs/tables"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ProductListOptions contains filtering and pagination options for admin product listings
type ProductListOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	IsActive      *bool            `json:"is_active,omitempty"`
	IsFeatured    *bool            `json:"is_featured,omitempty"`
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
	MinPrice      *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice      *decimal.Decimal `json:"max_price,omitempty"`
	SearchTerm    string           `json:"search_term,omitempty"` // name, description and notes
	CreatedAfter  *time.Time       `json:"created_after,omitempty"`
	CreatedBefore *time.Time       `json:"created_before,omitempty"`

	SortBy        string `json:"sort_by"`        // created_at, updated_at, price, name
	SortDirection string `json:"sort_direction"` // ASC or DESC
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]tables.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*tables.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*tables.Category, error)
	CategorySlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error)
	CreateCategory(ctx context.Context, c *tables.Category) error
	UpdateCategory(ctx context.Context, c *tables.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountProductsInCategory(ctx context.Context, id uuid.UUID) (int, error)
}

type ProductStore interface {
	ListProducts(ctx context.Context, opts *ProductListOptions) (*database.PaginationResult[tables.Product], error)
	ListActiveProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]tables.Product, error)
	ListFeaturedProducts(ctx context.Context, limit int) ([]tables.Product, error)
	ListActiveProductSlugs(ctx context.Context) ([]tables.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*tables.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*tables.Product, error)
	ProductSlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error)
	CreateProduct(ctx context.Context, p *tables.Product, options []tables.ProductOption) error
	ReplaceProduct(ctx context.Context, p *tables.Product, options []tables.ProductOption) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type BundleStore interface {
	ListBundles(ctx context.Context, activeOnly bool) ([]tables.Bundle, error)
	GetBundleBySlug(ctx context.Context, slug string) (*tables.Bundle, error)
	GetBundleByID(ctx context.Context, id uuid.UUID) (*tables.Bundle, error)
	BundleSlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error)
	CreateBundle(ctx context.Context, b *tables.Bundle) error
	UpdateBundle(ctx context.Context, b *tables.Bundle) error
	DeleteBundle(ctx context.Context, id uuid.UUID) error
}

// ImportStore is the narrow write surface the CSV importer needs
type ImportStore interface {
	UpsertCategoryBySlug(ctx context.Context, c *tables.Category) error
	CreateProduct(ctx context.Context, p *tables.Product, options []tables.ProductOption) error
}

// CatalogRepository implements the catalog stores on top of bun
type CatalogRepository struct {
	db *database.DB
}

func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func orderedOptions(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("po.display_order ASC")
}

// Categories

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]tables.Category, error) {
	return database.Query[tables.Category](r.db).
		OrderBy("c.display_order", database.ASC).
		OrderBy("c.name", database.ASC).
		All(ctx)
}

func (r *CatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*tables.Category, error) {
	return database.Query[tables.Category](r.db).Where("c.slug", slug).First(ctx)
}

func (r *CatalogRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*tables.Category, error) {
	return database.Query[tables.Category](r.db).Where("c.id", id).First(ctx)
}

func (r *CatalogRepository) CategorySlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	return database.Query[tables.Category](r.db).
		Where("c.slug", slug).
		WhereOp("c.id", "<>", exceptID).
		Exists(ctx)
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *tables.Category) error {
	_, err := database.Query[tables.Category](r.db).Insert(ctx, c)
	return err
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, c *tables.Category) error {
	c.UpdatedAt = time.Now().UTC()
	return database.Query[tables.Category](r.db).UpdateByPK(ctx, c, "name", "slug", "display_order", "updated_at")
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	n, err := database.Query[tables.Category](r.db).Where("id", id).Delete(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) CountProductsInCategory(ctx context.Context, id uuid.UUID) (int, error) {
	return database.Query[tables.Product](r.db).Where("p.category_id", id).Count(ctx)
}

// UpsertCategoryBySlug inserts the category or, when the slug exists, renames it
// and keeps its display order.
func (r *CatalogRepository) UpsertCategoryBySlug(ctx context.Context, c *tables.Category) error {
	_, err := database.Upsert(ctx, r.db, c, "slug", "name", "updated_at")
	return err
}

// Products

func (r *CatalogRepository) ListProducts(ctx context.Context, opts *ProductListOptions) (*database.PaginationResult[tables.Product], error) {
	query := database.Query[tables.Product](r.db).
		With("Category").
		With("Options", orderedOptions)

	if opts.IsActive != nil {
		query = query.Where("p.is_active", *opts.IsActive)
	}
	if opts.IsFeatured != nil {
		query = query.Where("p.is_featured", *opts.IsFeatured)
	}
	if opts.CategoryID != nil {
		query = query.Where("p.category_id", *opts.CategoryID)
	}
	if opts.MinPrice != nil {
		query = query.WhereOp("p.price", ">=", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		query = query.WhereOp("p.price", "<=", *opts.MaxPrice)
	}
	if opts.CreatedAfter != nil {
		query = query.WhereOp("p.created_at", ">=", *opts.CreatedAfter)
	}
	if opts.CreatedBefore != nil {
		query = query.WhereOp("p.created_at", "<=", *opts.CreatedBefore)
	}
	query = query.WhereSearch(opts.SearchTerm, "p.name", "p.description", "p.notes")

	direction := database.DESC
	if opts.SortDirection == "ASC" {
		direction = database.ASC
	}
	query = query.OrderBy("p."+opts.SortBy, direction).OrderBy("p.id", database.ASC)

	return database.Paginate(ctx, query, opts.Page, opts.PageSize)
}

func (r *CatalogRepository) ListActiveProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]tables.Product, error) {
	return database.Query[tables.Product](r.db).
		With("Options", orderedOptions).
		Where("p.category_id", categoryID).
		Where("p.is_active", true).
		OrderBy("p.created_at", database.DESC).
		All(ctx)
}

func (r *CatalogRepository) ListFeaturedProducts(ctx context.Context, limit int) ([]tables.Product, error) {
	return database.Query[tables.Product](r.db).
		With("Category").
		With("Options", orderedOptions).
		Where("p.is_active", true).
		Where("p.is_featured", true).
		OrderBy("p.created_at", database.DESC).
		Limit(limit).
		All(ctx)
}

func (r *CatalogRepository) ListActiveProductSlugs(ctx context.Context) ([]tables.Product, error) {
	return database.Query[tables.Product](r.db).
		Select("slug", "updated_at").
		Where("p.is_active", true).
		OrderBy("p.updated_at", database.DESC).
		All(ctx)
}

func (r *CatalogRepository) GetProductBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	return database.Query[tables.Product](r.db).
		With("Category").
		With("Options", orderedOptions).
		Where("p.slug", slug).
		First(ctx)
}

func (r *CatalogRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	return database.Query[tables.Product](r.db).
		With("Category").
		With("Options", orderedOptions).
		Where("p.id", id).
		First(ctx)
}

func (r *CatalogRepository) ProductSlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	return database.Query[tables.Product](r.db).
		Where("p.slug", slug).
		WhereOp("p.id", "<>", exceptID).
		Exists(ctx)
}

// CreateProduct inserts the product row and then its options in one transaction
func (r *CatalogRepository) CreateProduct(ctx context.Context, p *tables.Product, options []tables.ProductOption) error {
	return r.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Query[tables.Product](tx).Insert(ctx, p); err != nil {
			return err
		}
		return insertOptions(ctx, tx, p, options)
	})
}

// ReplaceProduct updates the product row and swaps its options wholesale
func (r *CatalogRepository) ReplaceProduct(ctx context.Context, p *tables.Product, options []tables.ProductOption) error {
	p.UpdatedAt = time.Now().UTC()
	return r.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		err := database.Query[tables.Product](tx).UpdateByPK(ctx, p,
			"name", "slug", "description", "price", "unit_label", "category_id",
			"prep_time_days", "is_active", "is_featured", "notes", "image_url",
			"max_options_select", "updated_at",
		)
		if err != nil {
			return err
		}
		if _, err := database.Query[tables.ProductOption](tx).Where("product_id", p.ID).Delete(ctx); err != nil {
			return err
		}
		return insertOptions(ctx, tx, p, options)
	})
}

// DeleteProduct removes the options first and then the product row
func (r *CatalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Query[tables.ProductOption](tx).Where("product_id", id).Delete(ctx); err != nil {
			return err
		}
		n, err := database.Query[tables.Product](tx).Where("id", id).Delete(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return lib.ErrNotFound
		}
		return nil
	})
}

func insertOptions(ctx context.Context, tx bun.Tx, p *tables.Product, options []tables.ProductOption) error {
	for i := range options {
		options[i].ProductID = p.ID
	}
	stored, err := database.Query[tables.ProductOption](tx).InsertMany(ctx, options)
	if err != nil {
		return fmt.Errorf("insert options: %w", err)
	}
	if stored == nil {
		stored = []tables.ProductOption{}
	}
	p.Options = stored
	return nil
}

// Bundles

func (r *CatalogRepository) ListBundles(ctx context.Context, activeOnly bool) ([]tables.Bundle, error) {
	query := database.Query[tables.Bundle](r.db)
	if activeOnly {
		query = query.Where("b.is_active", true)
	}
	return query.
		OrderBy("b.display_order", database.ASC).
		OrderBy("b.created_at", database.DESC).
		All(ctx)
}

func (r *CatalogRepository) GetBundleBySlug(ctx context.Context, slug string) (*tables.Bundle, error) {
	return database.Query[tables.Bundle](r.db).Where("b.slug", slug).First(ctx)
}

func (r *CatalogRepository) GetBundleByID(ctx context.Context, id uuid.UUID) (*tables.Bundle, error) {
	return database.Query[tables.Bundle](r.db).Where("b.id", id).First(ctx)
}

func (r *CatalogRepository) BundleSlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	return database.Query[tables.Bundle](r.db).
		Where("b.slug", slug).
		WhereOp("b.id", "<>", exceptID).
		Exists(ctx)
}

func (r *CatalogRepository) CreateBundle(ctx context.Context, b *tables.Bundle) error {
	_, err := database.Query[tables.Bundle](r.db).Insert(ctx, b)
	return err
}

func (r *CatalogRepository) UpdateBundle(ctx context.Context, b *tables.Bundle) error {
	b.UpdatedAt = time.Now().UTC()
	return database.Query[tables.Bundle](r.db).UpdateByPK(ctx, b,
		"name", "slug", "short_description", "description", "price", "serves_people",
		"is_active", "is_featured", "prep_time_days", "included_items", "optional_extras",
		"notes", "image_url", "display_order", "updated_at",
	)
}

func (r *CatalogRepository) DeleteBundle(ctx context.Context, id uuid.UUID) error {
	n, err := database.Query[tables.Bundle](r.db).Where("id", id).Delete(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}
