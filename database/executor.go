package database

import (
	"breadstation_server/lib"
	"context"
	"errors"
	"fmt"
	"time"
)

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

// All executes the query and returns all matching records with automatic retry
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var data []T

	err := WithRetry(ctx, func() error {
		data = nil // reset on retry
		return q.buildSelect(&data, true).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	if data == nil {
		data = []T{}
	}
	return data, nil
}

// First returns the first matching record or lib.ErrNotFound
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	data := new(T)

	err := WithRetry(ctx, func() error {
		return q.buildSelect(data, true).Limit(1).Scan(ctx)
	})
	if err != nil {
		mapped := lib.MapPgError(err)
		if errors.Is(mapped, lib.ErrNotFound) {
			return nil, lib.ErrNotFound
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", mapped, time.Since(start))
	}

	return data, nil
}

// Count returns the number of matching records
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var count int
	err := WithRetry(ctx, func() error {
		var err error
		// limit and offset must not leak into the count
		count, err = q.buildSelect((*T)(nil), false).Limit(0).Offset(0).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w", lib.MapPgError(err))
	}

	return count, nil
}

// Exists checks if any records match the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := WithRetry(ctx, func() error {
		var err error
		exists, err = q.buildSelect((*T)(nil), false).Exists(ctx)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to execute exists query: %w", lib.MapPgError(err))
	}
	return exists, nil
}

// Insert inserts a record, filling database defaults back into data
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		_, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w", lib.MapPgError(err))
	}

	return data, nil
}

// InsertMany inserts all records in a single statement
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	if len(data) == 0 {
		return data, nil
	}

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		_, err := q.db.NewInsert().Model(&data).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute bulk insert: %w", lib.MapPgError(err))
	}

	return data, nil
}

// UpdateByPK writes the given columns of data, matched on its primary key.
// With no columns every column is written.
func (q *QueryBuilder[T]) UpdateByPK(ctx context.Context, data *T, columns ...string) error {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var affected int64
	err := WithRetry(ctx, func() error {
		query := q.db.NewUpdate().Model(data).WherePK().Returning("*")
		if len(columns) > 0 {
			query = query.Column(columns...)
		}
		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to execute update query: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return lib.ErrNotFound
	}
	return nil
}

// Delete removes every record matching the where clauses
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	if len(q.wheres) == 0 {
		return 0, errors.New("refusing to delete without a where clause")
	}

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var affected int64
	err := WithRetry(ctx, func() error {
		res, err := q.applyWheresToDelete(q.db.NewDelete().Model((*T)(nil))).Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w", lib.MapPgError(err))
	}
	return int(affected), nil
}
