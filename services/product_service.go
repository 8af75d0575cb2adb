package services

import (
	"breadstation_server/cart"
	"breadstation_server/database"
	"breadstation_server/lib"
	"breadstation_server/structs"
	"breadstation_server/structs/tables"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const featuredLimit = 8

var productSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"price":      true,
	"name":       true,
}

type ProductService struct {
	logger   *gecho.Logger
	products ProductStore
	cache    Cache
	ttl      time.Duration
}

func NewProductService(logger *gecho.Logger, products ProductStore, cache Cache, ttl time.Duration) *ProductService {
	if cache == nil {
		cache = noopCache{}
	}
	return &ProductService{
		logger:   logger,
		products: products,
		cache:    cache,
		ttl:      ttl,
	}
}

// ProductListResult wraps the admin product list with its pagination metadata
type ProductListResult struct {
	Products   []tables.Product    `json:"products"`
	Pagination database.Pagination `json:"pagination"`
	Filters    ProductListOptions  `json:"filters"`
	QueryTime  time.Duration       `json:"query_time"`
}

// GetProductBySlug returns an active product with its options. Inactive products
// are reported as not found.
func (ps *ProductService) GetProductBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	return cached(ctx, ps.cache, ps.logger, catalogPrefix+"product:"+slug, ps.ttl, func() (*tables.Product, error) {
		product, err := ps.products.GetProductBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, lib.ErrNotFound
		}
		return product, nil
	})
}

func (ps *ProductService) GetFeaturedProducts(ctx context.Context) ([]tables.Product, error) {
	return cached(ctx, ps.cache, ps.logger, catalogPrefix+"featured", ps.ttl, func() ([]tables.Product, error) {
		products, err := ps.products.ListFeaturedProducts(ctx, featuredLimit)
		if err != nil {
			ps.logger.Error("Failed to fetch featured products", gecho.Field("error", err))
			return nil, fmt.Errorf("failed to fetch featured products: %w", err)
		}
		return products, nil
	})
}

// GetAllProducts lists products for the admin with filtering and pagination.
// Inactive products are included unless filtered out.
func (ps *ProductService) GetAllProducts(ctx context.Context, opts *ProductListOptions) (*ProductListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = &ProductListOptions{}
	}
	ps.applyDefaultOptions(opts)

	if err := ps.validateOptions(opts); err != nil {
		return nil, err
	}

	result, err := ps.products.ListProducts(ctx, opts)
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("page", opts.Page),
			gecho.Field("pageSize", opts.PageSize),
		)
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	ps.logger.Debug("Products fetched",
		gecho.Field("count", len(result.Data)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("duration", time.Since(startTime)),
	)

	return &ProductListResult{
		Products:   result.Data,
		Pagination: result.Pagination,
		Filters:    *opts,
		QueryTime:  time.Since(startTime),
	}, nil
}

func (ps *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	return ps.products.GetProductByID(ctx, id)
}

// CreateProduct stores the product row and its options
func (ps *ProductService) CreateProduct(ctx context.Context, req *structs.ProductRequest) (*tables.Product, error) {
	product, options, err := productFromRequest(req)
	if err != nil {
		return nil, err
	}

	taken, err := ps.products.ProductSlugTaken(ctx, product.Slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, lib.ErrSlugInUse
	}

	if err := ps.products.CreateProduct(ctx, product, options); err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, lib.ErrSlugInUse
		}
		ps.logger.Error("Failed to create product", gecho.Field("slug", product.Slug), gecho.Field("error", err))
		return nil, err
	}

	ps.invalidate(ctx)
	ps.logger.Info("Product created",
		gecho.Field("id", product.ID),
		gecho.Field("slug", product.Slug),
		gecho.Field("options", len(options)),
	)
	return product, nil
}

// UpdateProduct replaces the product fields and its whole option list
func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *structs.ProductRequest) (*tables.Product, error) {
	existing, err := ps.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product, options, err := productFromRequest(req)
	if err != nil {
		return nil, err
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt

	if product.Slug != existing.Slug {
		taken, err := ps.products.ProductSlugTaken(ctx, product.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, lib.ErrSlugInUse
		}
	}

	if err := ps.products.ReplaceProduct(ctx, product, options); err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, lib.ErrSlugInUse
		}
		ps.logger.Error("Failed to update product", gecho.Field("id", id), gecho.Field("error", err))
		return nil, err
	}

	ps.invalidate(ctx)
	ps.logger.Info("Product updated", gecho.Field("id", id), gecho.Field("options", len(options)))
	return product, nil
}

func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := ps.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	ps.invalidate(ctx)
	ps.logger.Info("Product deleted", gecho.Field("id", id))
	return nil
}

// ResolveLine builds a cart line from catalog data. Prices always come from the
// catalog; the caller only chooses the product, the options and the quantity.
func (ps *ProductService) ResolveLine(ctx context.Context, productID uuid.UUID, optionIDs []uuid.UUID, quantity int) (cart.Line, error) {
	product, err := ps.products.GetProductByID(ctx, productID)
	if err != nil {
		return cart.Line{}, err
	}
	if !product.IsActive {
		return cart.Line{}, lib.ErrProductInactive
	}

	limit := max(product.MaxOptionsSelect, 1)
	if len(optionIDs) > limit {
		return cart.Line{}, fmt.Errorf("%w: at most %d", lib.ErrTooManyOptions, limit)
	}

	byID := make(map[uuid.UUID]tables.ProductOption, len(product.Options))
	for _, o := range product.Options {
		byID[o.ID] = o
	}

	options := make([]cart.Option, 0, len(optionIDs))
	seen := make(map[uuid.UUID]bool, len(optionIDs))
	for _, id := range optionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		o, ok := byID[id]
		if !ok {
			return cart.Line{}, fmt.Errorf("%w: %s", lib.ErrUnknownOption, id)
		}
		options = append(options, cart.Option{ID: o.ID, Name: o.OptionName, PriceModifier: o.PriceModifier})
	}

	return cart.Line{
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductSlug:  product.Slug,
		UnitLabel:    product.UnitLabel,
		BasePrice:    product.Price,
		Quantity:     quantity,
		Options:      options,
		PrepTimeDays: product.PrepTimeDays,
		ImageURL:     product.ImageURL,
	}, nil
}

func (ps *ProductService) invalidate(ctx context.Context) {
	if err := ps.cache.DeletePattern(ctx, catalogPrefix+"*"); err != nil {
		ps.logger.Warn("Failed to invalidate catalog cache", gecho.Field("error", err))
	}
}

// applyDefaultOptions sets default values for unspecified options
func (ps *ProductService) applyDefaultOptions(opts *ProductListOptions) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}
	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}
	if opts.SortDirection == "" {
		opts.SortDirection = "DESC"
	}
}

func (ps *ProductService) validateOptions(opts *ProductListOptions) error {
	if opts.PageSize > 100 {
		return lib.NewValidationError("page_size", "page size cannot exceed 100")
	}
	if !productSortColumns[opts.SortBy] {
		return lib.NewValidationError("sort_by", "invalid sort field: "+opts.SortBy)
	}
	if opts.SortDirection != "ASC" && opts.SortDirection != "DESC" {
		return lib.NewValidationError("sort_direction", "sort direction must be ASC or DESC")
	}
	if opts.MinPrice != nil && opts.MaxPrice != nil && opts.MinPrice.GreaterThan(*opts.MaxPrice) {
		return lib.NewValidationError("min_price", "min price cannot be greater than max price")
	}
	if opts.CreatedAfter != nil && opts.CreatedBefore != nil && opts.CreatedAfter.After(*opts.CreatedBefore) {
		return lib.NewValidationError("created_after", "created after cannot be later than created before")
	}
	return nil
}

// productFromRequest maps the admin payload onto table rows, applying the
// catalog defaults for omitted fields.
func productFromRequest(req *structs.ProductRequest) (*tables.Product, []tables.ProductOption, error) {
	if req.Price.IsNegative() {
		return nil, nil, lib.NewValidationError("price", "price cannot be negative")
	}

	slug := lib.Slugify(req.Slug)
	if slug == "" {
		slug = lib.Slugify(req.Name)
	}
	if slug == "" {
		return nil, nil, lib.NewValidationError("slug", "slug cannot be derived from the name")
	}

	product := &tables.Product{
		Name:             req.Name,
		Slug:             slug,
		Description:      req.Description,
		Price:            req.Price.Round(2),
		UnitLabel:        req.UnitLabel,
		CategoryID:       req.CategoryID,
		PrepTimeDays:     2,
		IsActive:         true,
		IsFeatured:       req.IsFeatured,
		Notes:            req.Notes,
		ImageURL:         req.ImageURL,
		MaxOptionsSelect: 1,
	}
	if req.PrepTimeDays != nil {
		product.PrepTimeDays = *req.PrepTimeDays
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.MaxOptionsSelect != nil {
		product.MaxOptionsSelect = *req.MaxOptionsSelect
	}

	options := make([]tables.ProductOption, 0, len(req.Options))
	for i, o := range req.Options {
		options = append(options, tables.ProductOption{
			OptionName:    o.OptionName,
			PriceModifier: o.PriceModifier.Round(2),
			DisplayOrder:  i,
		})
	}

	return product, options, nil
}

// ParsePrice reads a decimal price the way admins type it, "12", "12.5" or "₪12.50"
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := make([]rune, 0, len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) == 0 {
		return decimal.Zero, strconv.ErrSyntax
	}
	return decimal.NewFromString(string(cleaned))
}
