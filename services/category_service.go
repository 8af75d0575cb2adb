package services

import (
	"breadstation_server/lib"
	"breadstation_server/structs"
	"breadstation_server/structs/tables"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// CategoryWithProducts is the public category page: the category and its active products
type CategoryWithProducts struct {
	Category tables.Category  `json:"category"`
	Products []tables.Product `json:"products"`
}

type CategoryService struct {
	logger     *gecho.Logger
	categories CategoryStore
	products   ProductStore
	cache      Cache
	ttl        time.Duration
}

func NewCategoryService(logger *gecho.Logger, categories CategoryStore, products ProductStore, cache Cache, ttl time.Duration) *CategoryService {
	if cache == nil {
		cache = noopCache{}
	}
	return &CategoryService{
		logger:     logger,
		categories: categories,
		products:   products,
		cache:      cache,
		ttl:        ttl,
	}
}

// ListCategories returns all categories ordered by display order
func (cs *CategoryService) ListCategories(ctx context.Context) ([]tables.Category, error) {
	return cached(ctx, cs.cache, cs.logger, catalogPrefix+"categories", cs.ttl, func() ([]tables.Category, error) {
		categories, err := cs.categories.ListCategories(ctx)
		if err != nil {
			cs.logger.Error("Failed to list categories", gecho.Field("error", err))
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		return categories, nil
	})
}

// GetCategoryPage returns a category by slug with its active products, newest first
func (cs *CategoryService) GetCategoryPage(ctx context.Context, slug string) (*CategoryWithProducts, error) {
	return cached(ctx, cs.cache, cs.logger, catalogPrefix+"category:"+slug, cs.ttl, func() (*CategoryWithProducts, error) {
		category, err := cs.categories.GetCategoryBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		products, err := cs.products.ListActiveProductsByCategory(ctx, category.ID)
		if err != nil {
			cs.logger.Error("Failed to list category products", gecho.Field("slug", slug), gecho.Field("error", err))
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		return &CategoryWithProducts{Category: *category, Products: products}, nil
	})
}

func (cs *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*tables.Category, error) {
	return cs.categories.GetCategoryByID(ctx, id)
}

func (cs *CategoryService) CreateCategory(ctx context.Context, req *structs.CategoryRequest) (*tables.Category, error) {
	slug := categorySlug(req)
	if slug == "" {
		return nil, lib.NewValidationError("slug", "slug cannot be derived from the name")
	}

	taken, err := cs.categories.CategorySlugTaken(ctx, slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, lib.ErrSlugInUse
	}

	category := &tables.Category{Name: req.Name, Slug: slug}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	if err := cs.categories.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, lib.ErrSlugInUse
		}
		cs.logger.Error("Failed to create category", gecho.Field("slug", slug), gecho.Field("error", err))
		return nil, err
	}

	cs.invalidate(ctx)
	cs.logger.Info("Category created", gecho.Field("id", category.ID), gecho.Field("slug", slug))
	return category, nil
}

// UpdateCategory renames a category. A slug owned by another category is refused.
func (cs *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *structs.CategoryRequest) (*tables.Category, error) {
	category, err := cs.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug := categorySlug(req)
	if slug == "" {
		return nil, lib.NewValidationError("slug", "slug cannot be derived from the name")
	}
	if slug != category.Slug {
		taken, err := cs.categories.CategorySlugTaken(ctx, slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, lib.ErrSlugInUse
		}
	}

	category.Name = req.Name
	category.Slug = slug
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	if err := cs.categories.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, lib.ErrSlugInUse
		}
		return nil, err
	}

	cs.invalidate(ctx)
	return category, nil
}

// DeleteCategory removes an empty category. Categories that still own products
// are refused with ErrCategoryNotEmpty.
func (cs *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := cs.categories.GetCategoryByID(ctx, id); err != nil {
		return err
	}

	count, err := cs.categories.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		cs.logger.Debug("Refusing to delete non-empty category", gecho.Field("id", id), gecho.Field("products", count))
		return lib.ErrCategoryNotEmpty
	}

	if err := cs.categories.DeleteCategory(ctx, id); err != nil {
		// a product may have been added in between; the FK is RESTRICT
		if errors.Is(err, lib.ErrValidation) {
			return lib.ErrCategoryNotEmpty
		}
		return err
	}

	cs.invalidate(ctx)
	cs.logger.Info("Category deleted", gecho.Field("id", id))
	return nil
}

func (cs *CategoryService) invalidate(ctx context.Context) {
	if err := cs.cache.DeletePattern(ctx, catalogPrefix+"*"); err != nil {
		cs.logger.Warn("Failed to invalidate catalog cache", gecho.Field("error", err))
	}
}

func categorySlug(req *structs.CategoryRequest) string {
	if req.Slug != "" {
		return lib.Slugify(req.Slug)
	}
	return lib.Slugify(req.Name)
}
