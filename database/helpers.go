package database

import (
	"breadstation_server/lib"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// Transaction runs fn inside a database transaction. The transaction is rolled
// back when fn returns an error or panics.
func (db *DB) Transaction(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	err := db.RunInTx(ctx, &sql.TxOptions{}, fn)
	if err != nil {
		return lib.MapPgError(err)
	}
	return nil
}

// Pagination represents pagination parameters
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PaginationResult wraps paginated data with metadata
type PaginationResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate runs the query for one page and reports the total count
func Paginate[T any](ctx context.Context, q *QueryBuilder[T], page, pageSize int) (*PaginationResult[T], error) {
	page = max(page, 1)
	if pageSize < 1 {
		pageSize = 20
	}
	pageSize = min(pageSize, 100)

	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	data, err := q.Limit(pageSize).Offset((page - 1) * pageSize).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get paginated data: %w", err)
	}

	return &PaginationResult[T]{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
	}, nil
}

// Upsert inserts data or, on a conflict over conflictColumn, updates only the
// listed columns. The stored row is scanned back into data.
func Upsert[T any](ctx context.Context, db bun.IDB, data *T, conflictColumn string, updateColumns ...string) (*T, error) {
	query := db.NewInsert().Model(data).Returning("*")

	if len(updateColumns) == 0 {
		query = query.On(fmt.Sprintf("CONFLICT (%s) DO NOTHING", conflictColumn))
	} else {
		sets := make([]string, 0, len(updateColumns))
		for _, col := range updateColumns {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
		query = query.On(fmt.Sprintf("CONFLICT (%s) DO UPDATE", conflictColumn)).Set(strings.Join(sets, ", "))
	}

	err := WithRetry(ctx, func() error {
		_, err := query.Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute upsert: %w", lib.MapPgError(err))
	}

	return data, nil
}
