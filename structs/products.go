package structs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OptionRequest struct {
	OptionName    string          `json:"option_name" validate:"required,max=200"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

// ProductRequest is the admin payload for creating or replacing a product.
// Options are replaced wholesale on update.
type ProductRequest struct {
	Name             string          `json:"name" validate:"required,max=200"`
	Slug             string          `json:"slug" validate:"omitempty,max=250"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	UnitLabel        string          `json:"unit_label" validate:"max=100"`
	CategoryID       uuid.UUID       `json:"category_id" validate:"required"`
	PrepTimeDays     *int            `json:"prep_time_days" validate:"omitempty,gte=0,lte=30"`
	IsActive         *bool           `json:"is_active"`
	IsFeatured       bool            `json:"is_featured"`
	Notes            string          `json:"notes"`
	ImageURL         *string         `json:"image_url" validate:"omitempty,url"`
	MaxOptionsSelect *int            `json:"max_options_select" validate:"omitempty,gte=1,lte=10"`
	Options          []OptionRequest `json:"options" validate:"dive"`
}

type CategoryRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Slug         string `json:"slug" validate:"omitempty,max=250"`
	DisplayOrder *int   `json:"display_order" validate:"omitempty,gte=0"`
}

type BundleRequest struct {
	Name             string          `json:"name" validate:"required,max=200"`
	Slug             string          `json:"slug" validate:"omitempty,max=250"`
	ShortDescription string          `json:"short_description"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	ServesPeople     *int            `json:"serves_people" validate:"omitempty,gte=1"`
	IsActive         *bool           `json:"is_active"`
	IsFeatured       bool            `json:"is_featured"`
	PrepTimeDays     *int            `json:"prep_time_days" validate:"omitempty,gte=0,lte=30"`
	IncludedItems    BundleItems     `json:"included_items"`
	OptionalExtras   BundleItems     `json:"optional_extras"`
	Notes            string          `json:"notes"`
	ImageURL         *string         `json:"image_url" validate:"omitempty,url"`
	DisplayOrder     int             `json:"display_order" validate:"gte=0"`
}

type SitemapEntry struct {
	Kind         string    `json:"kind"` // category, product, bundle
	Slug         string    `json:"slug"`
	URL          string    `json:"url"`
	LastModified time.Time `json:"last_modified"`
}

type ImportStats struct {
	Products   int `json:"products"`
	Options    int `json:"options"`
	Categories int `json:"categories"`
}

type ImportResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Stats   ImportStats `json:"stats"`
}

type PaginatedResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
