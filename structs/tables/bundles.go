package tables

import (
	"breadstation_server/structs"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Bundle struct {
	bun.BaseModel    `bun:"table:bundles,alias:b"`
	ID               uuid.UUID           `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()" json:"id"`
	Name             string              `bun:"name,notnull" json:"name"`
	Slug             string              `bun:"slug,notnull,unique" json:"slug"`
	ShortDescription string              `bun:"short_description,notnull,default:''" json:"short_description"`
	Description      string              `bun:"description,notnull,default:''" json:"description"`
	Price            decimal.Decimal     `bun:"price,type:numeric(10,2),notnull" json:"price"`
	ServesPeople     *int                `bun:"serves_people" json:"serves_people"`
	IsActive         bool                `bun:"is_active,notnull,default:true" json:"is_active"`
	IsFeatured       bool                `bun:"is_featured,notnull,default:false" json:"is_featured"`
	PrepTimeDays     int                 `bun:"prep_time_days,notnull,default:2" json:"prep_time_days"`
	IncludedItems    structs.BundleItems `bun:"included_items,type:jsonb,notnull,default:'[]'" json:"included_items"`
	OptionalExtras   structs.BundleItems `bun:"optional_extras,type:jsonb,notnull,default:'[]'" json:"optional_extras"`
	Notes            string              `bun:"notes,notnull,default:''" json:"notes"`
	ImageURL         *string             `bun:"image_url" json:"image_url"`
	DisplayOrder     int                 `bun:"display_order,notnull,default:0" json:"display_order"`
	CreatedAt        time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
