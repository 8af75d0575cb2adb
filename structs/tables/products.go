package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`
	ID            uuid.UUID `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Slug          string    `bun:"slug,notnull,unique" json:"slug"`
	DisplayOrder  int       `bun:"display_order,notnull,default:0" json:"display_order"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	Products      []Product `bun:"rel:has-many,join:id=category_id" json:"products,omitempty"`
}

type Product struct {
	bun.BaseModel    `bun:"table:products,alias:p"`
	ID               uuid.UUID       `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()" json:"id"`
	Name             string          `bun:"name,notnull" json:"name"`
	Slug             string          `bun:"slug,notnull,unique" json:"slug"`
	Description      string          `bun:"description,notnull,default:''" json:"description"`
	Price            decimal.Decimal `bun:"price,type:numeric(10,2),notnull" json:"price"`
	UnitLabel        string          `bun:"unit_label,notnull,default:''" json:"unit_label"`
	CategoryID       uuid.UUID       `bun:"category_id,type:uuid,notnull" json:"category_id"`
	PrepTimeDays     int             `bun:"prep_time_days,notnull,default:2" json:"prep_time_days"`
	IsActive         bool            `bun:"is_active,notnull,default:true" json:"is_active"`
	IsFeatured       bool            `bun:"is_featured,notnull,default:false" json:"is_featured"`
	Notes            string          `bun:"notes,notnull,default:''" json:"notes"`
	ImageURL         *string         `bun:"image_url" json:"image_url"`
	MaxOptionsSelect int             `bun:"max_options_select,notnull,default:1" json:"max_options_select"`
	CreatedAt        time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	Category         *Category       `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Options          []ProductOption `bun:"rel:has-many,join:id=product_id" json:"options"`
}

// ProductOption is a selectable variant whose modifier is added to the base price
type ProductOption struct {
	bun.BaseModel `bun:"table:product_options,alias:po"`
	ID            uuid.UUID       `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()" json:"id"`
	ProductID     uuid.UUID       `bun:"product_id,type:uuid,notnull" json:"product_id"`
	OptionName    string          `bun:"option_name,notnull" json:"option_name"`
	PriceModifier decimal.Decimal `bun:"price_modifier,type:numeric(10,2),notnull,default:0" json:"price_modifier"`
	DisplayOrder  int             `bun:"display_order,notnull,default:0" json:"display_order"`
}
