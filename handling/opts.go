package handling

import (
	"breadstation_server/lib"
	"breadstation_server/services"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParseProductListOptions parses admin listing query parameters. Range and
// whitelist checks happen in the product service.
func ParseProductListOptions(r *http.Request) (*services.ProductListOptions, error) {
	query := r.URL.Query()

	opts := &services.ProductListOptions{}
	if len(query) == 0 {
		return opts, nil
	}

	var err error

	if page := query.Get("page"); page != "" {
		if opts.Page, err = strconv.Atoi(page); err != nil {
			return nil, lib.NewValidationError("page", "must be a number")
		}
	}

	if pageSize := query.Get("page_size"); pageSize != "" {
		if opts.PageSize, err = strconv.Atoi(pageSize); err != nil {
			return nil, lib.NewValidationError("page_size", "must be a number")
		}
	}

	if opts.IsActive, err = parseBool(query.Get("is_active"), "is_active"); err != nil {
		return nil, err
	}
	if opts.IsFeatured, err = parseBool(query.Get("is_featured"), "is_featured"); err != nil {
		return nil, err
	}

	if categoryID := query.Get("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			return nil, lib.NewValidationError("category_id", "must be a valid UUID")
		}
		opts.CategoryID = &id
	}

	opts.SearchTerm = strings.TrimSpace(query.Get("search"))

	if opts.MinPrice, err = parsePrice(query.Get("min_price"), "min_price"); err != nil {
		return nil, err
	}
	if opts.MaxPrice, err = parsePrice(query.Get("max_price"), "max_price"); err != nil {
		return nil, err
	}

	if opts.CreatedAfter, err = parseTime(query.Get("created_after"), "created_after"); err != nil {
		return nil, err
	}
	if opts.CreatedBefore, err = parseTime(query.Get("created_before"), "created_before"); err != nil {
		return nil, err
	}

	opts.SortBy = query.Get("sort_by")
	opts.SortDirection = strings.ToUpper(query.Get("sort_direction"))

	return opts, nil
}

// ParseUUIDParam reads a uuid path value
func ParseUUIDParam(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, lib.NewValidationError(field, "must be a valid UUID")
	}
	return id, nil
}

func parseBool(raw, field string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, lib.NewValidationError(field, "must be true or false")
	}
	return &v, nil
}

func parsePrice(raw, field string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := services.ParsePrice(raw)
	if err != nil {
		return nil, lib.NewValidationError(field, "must be a number")
	}
	return &v, nil
}

func parseTime(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, lib.NewValidationError(field, "must be an RFC3339 timestamp")
	}
	return &t, nil
}
