package database

import (
	"breadstation_server/structs/tables"
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateSchema creates the catalog tables and their indexes when missing
func (db *DB) CreateSchema(ctx context.Context) error {
	return db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS pgcrypto`); err != nil {
			return fmt.Errorf("enable pgcrypto: %w", err)
		}

		if _, err := tx.NewCreateTable().Model((*tables.Category)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create categories: %w", err)
		}

		if _, err := tx.NewCreateTable().Model((*tables.Product)(nil)).
			IfNotExists().
			ForeignKey(`("category_id") REFERENCES "categories" ("id") ON DELETE RESTRICT`).
			Exec(ctx); err != nil {
			return fmt.Errorf("create products: %w", err)
		}

		if _, err := tx.NewCreateTable().Model((*tables.ProductOption)(nil)).
			IfNotExists().
			ForeignKey(`("product_id") REFERENCES "products" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return fmt.Errorf("create product_options: %w", err)
		}

		if _, err := tx.NewCreateTable().Model((*tables.Bundle)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create bundles: %w", err)
		}

		indexes := []struct {
			model   any
			name    string
			columns []string
		}{
			{(*tables.Product)(nil), "idx_products_category_id", []string{"category_id"}},
			{(*tables.Product)(nil), "idx_products_active_featured", []string{"is_active", "is_featured"}},
			{(*tables.ProductOption)(nil), "idx_product_options_product_id", []string{"product_id", "display_order"}},
			{(*tables.Category)(nil), "idx_categories_display_order", []string{"display_order"}},
			{(*tables.Bundle)(nil), "idx_bundles_active_order", []string{"is_active", "display_order"}},
		}
		for _, idx := range indexes {
			if _, err := tx.NewCreateIndex().Model(idx.model).Index(idx.name).IfNotExists().Column(idx.columns...).Exec(ctx); err != nil {
				return fmt.Errorf("create index %s: %w", idx.name, err)
			}
		}

		return nil
	})
}
