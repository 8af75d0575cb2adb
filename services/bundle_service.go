package services

import (
	"breadstation_server/lib"
	"breadstation_server/structs"
	"breadstation_server/structs/tables"
	"context"
	"errors"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type BundleService struct {
	logger  *gecho.Logger
	bundles BundleStore
	cache   Cache
	ttl     time.Duration
}

func NewBundleService(logger *gecho.Logger, bundles BundleStore, cache Cache, ttl time.Duration) *BundleService {
	if cache == nil {
		cache = noopCache{}
	}
	return &BundleService{logger: logger, bundles: bundles, cache: cache, ttl: ttl}
}

// GetActiveBundles lists bundles shown in the storefront
func (bs *BundleService) GetActiveBundles(ctx context.Context) ([]tables.Bundle, error) {
	return cached(ctx, bs.cache, bs.logger, catalogPrefix+"bundles", bs.ttl, func() ([]tables.Bundle, error) {
		return bs.bundles.ListBundles(ctx, true)
	})
}

func (bs *BundleService) GetBundleBySlug(ctx context.Context, slug string) (*tables.Bundle, error) {
	return cached(ctx, bs.cache, bs.logger, catalogPrefix+"bundle:"+slug, bs.ttl, func() (*tables.Bundle, error) {
		bundle, err := bs.bundles.GetBundleBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if !bundle.IsActive {
			return nil, lib.ErrNotFound
		}
		return bundle, nil
	})
}

func (bs *BundleService) GetAllBundles(ctx context.Context) ([]tables.Bundle, error) {
	return bs.bundles.ListBundles(ctx, false)
}

func (bs *BundleService) GetBundleByID(ctx context.Context, id uuid.UUID) (*tables.Bundle, error) {
	return bs.bundles.GetBundleByID(ctx, id)
}

func (bs *BundleService) CreateBundle(ctx context.Context, req *structs.BundleRequest) (*tables.Bundle, error) {
	bundle, err := bundleFromRequest(req)
	if err != nil {
		return nil, err
	}

	taken, err := bs.bundles.BundleSlugTaken(ctx, bundle.Slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, lib.ErrSlugInUse
	}

	if err := bs.bundles.CreateBundle(ctx, bundle); err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, lib.ErrSlugInUse
		}
		return nil, err
	}

	bs.invalidate(ctx)
	bs.logger.Info("Bundle created", gecho.Field("id", bundle.ID), gecho.Field("slug", bundle.Slug))
	return bundle, nil
}

func (bs *BundleService) UpdateBundle(ctx context.Context, id uuid.UUID, req *structs.BundleRequest) (*tables.Bundle, error) {
	existing, err := bs.bundles.GetBundleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bundle, err := bundleFromRequest(req)
	if err != nil {
		return nil, err
	}
	bundle.ID = existing.ID
	bundle.CreatedAt = existing.CreatedAt

	if bundle.Slug != existing.Slug {
		taken, err := bs.bundles.BundleSlugTaken(ctx, bundle.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, lib.ErrSlugInUse
		}
	}

	if err := bs.bundles.UpdateBundle(ctx, bundle); err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, lib.ErrSlugInUse
		}
		return nil, err
	}

	bs.invalidate(ctx)
	return bundle, nil
}

func (bs *BundleService) DeleteBundle(ctx context.Context, id uuid.UUID) error {
	if err := bs.bundles.DeleteBundle(ctx, id); err != nil {
		return err
	}
	bs.invalidate(ctx)
	bs.logger.Info("Bundle deleted", gecho.Field("id", id))
	return nil
}

func (bs *BundleService) invalidate(ctx context.Context) {
	if err := bs.cache.DeletePattern(ctx, catalogPrefix+"*"); err != nil {
		bs.logger.Warn("Failed to invalidate catalog cache", gecho.Field("error", err))
	}
}

func bundleFromRequest(req *structs.BundleRequest) (*tables.Bundle, error) {
	if req.Price.IsNegative() {
		return nil, lib.NewValidationError("price", "price cannot be negative")
	}

	slug := lib.Slugify(req.Slug)
	if slug == "" {
		slug = lib.Slugify(req.Name)
	}
	if slug == "" {
		return nil, lib.NewValidationError("slug", "slug cannot be derived from the name")
	}

	included := req.IncludedItems
	if included == nil {
		included = structs.BundleItems{}
	}
	extras := req.OptionalExtras
	if extras == nil {
		extras = structs.BundleItems{}
	}

	bundle := &tables.Bundle{
		Name:             req.Name,
		Slug:             slug,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Price:            req.Price.Round(2),
		ServesPeople:     req.ServesPeople,
		IsActive:         true,
		IsFeatured:       req.IsFeatured,
		PrepTimeDays:     2,
		IncludedItems:    included,
		OptionalExtras:   extras,
		Notes:            req.Notes,
		ImageURL:         req.ImageURL,
		DisplayOrder:     req.DisplayOrder,
	}
	if req.IsActive != nil {
		bundle.IsActive = *req.IsActive
	}
	if req.PrepTimeDays != nil {
		bundle.PrepTimeDays = *req.PrepTimeDays
	}
	return bundle, nil
}
