package lib

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Domain errors
var (
	ErrValidation       = errors.New("validation failed")
	ErrCategoryNotEmpty = errors.New("cannot delete category with products, move or delete products first")
	ErrSlugInUse        = errors.New("slug already in use")
	ErrProductInactive  = errors.New("product is not available")
	ErrTooManyOptions   = errors.New("too many options selected")
	ErrUnknownOption    = errors.New("option does not belong to product")
)

// Auth errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// MapPgError translates driver errors into the package sentinels so handlers can
// decide on a status code with errors.Is.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code { // SQLSTATE
		case "23505": // unique_violation
			return errors.Join(ErrConflict, err)
		case "23503", "23502", "23514": // foreign_key, not_null, check
			return errors.Join(ErrValidation, err)
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}
