package services

import (
	"breadstation_server/lib"
	"breadstation_server/structs"
	"breadstation_server/structs/tables"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const ImportSuccessMessage = "הייבוא הושלם בהצלחה"

var (
	ErrImportNoData    = fmt.Errorf("%w: No data found in CSV", lib.ErrValidation)
	ErrImportBadHeader = fmt.Errorf("%w: CSV header must contain category, name and base_price", lib.ErrValidation)
)

var (
	optionModifier      = regexp.MustCompile(`\(([+\-]\d+)\)`)
	optionModifierStrip = regexp.MustCompile(`\s*\([+\-]\d+\)\s*`)
)

var requiredColumns = []string{"category", "name", "base_price"}

// ImportRow is one parsed line of the catalog file
type ImportRow struct {
	Line      int
	Category  string
	Name      string
	UnitLabel string
	BasePrice decimal.Decimal
	Notes     string
	Options   []ParsedOption
}

type ParsedOption struct {
	Name          string
	PriceModifier decimal.Decimal
}

// ImportService loads a catalog CSV into categories, products and options
type ImportService struct {
	logger *gecho.Logger
	store  ImportStore
	cache  Cache
	now    func() time.Time
}

func NewImportService(logger *gecho.Logger, store ImportStore, cache Cache) *ImportService {
	if cache == nil {
		cache = noopCache{}
	}
	return &ImportService{logger: logger, store: store, cache: cache, now: time.Now}
}

// Import parses the whole file first and rejects it before any write when a
// row is malformed. Rows are then written one by one; a storage failure midway
// leaves the rows before it imported.
func (is *ImportService) Import(ctx context.Context, r io.Reader) (*structs.ImportResult, error) {
	rows, err := ParseCatalogCSV(r)
	if err != nil {
		return nil, err
	}

	started := is.now()
	token := started.UnixMilli()
	categoryIDs := make(map[string]uuid.UUID)
	categoryOrder := 0
	stats := structs.ImportStats{}

	defer func() {
		if err := is.cache.DeletePattern(context.WithoutCancel(ctx), catalogPrefix+"*"); err != nil {
			is.logger.Warn("Failed to invalidate catalog cache after import", gecho.Field("error", err))
		}
	}()

	for i, row := range rows {
		categoryID, ok := categoryIDs[row.Category]
		if !ok {
			category := &tables.Category{
				Name:         row.Category,
				Slug:         lib.Slugify(row.Category),
				DisplayOrder: categoryOrder,
			}
			categoryOrder++
			if err := is.store.UpsertCategoryBySlug(ctx, category); err != nil {
				is.logger.Error("Import failed on category",
					gecho.Field("line", row.Line),
					gecho.Field("category", row.Category),
					gecho.Field("error", err),
				)
				return nil, fmt.Errorf("line %d: category %q: %w", row.Line, row.Category, err)
			}
			categoryID = category.ID
			categoryIDs[row.Category] = categoryID
		}

		product := &tables.Product{
			Name:             row.Name,
			Slug:             lib.Slugify(row.Name + "-" + strconv.FormatInt(token+int64(i), 10)),
			Price:            row.BasePrice,
			UnitLabel:        row.UnitLabel,
			CategoryID:       categoryID,
			Notes:            row.Notes,
			MaxOptionsSelect: MaxOptionsFromNotes(row.Notes),
			PrepTimeDays:     2,
			IsActive:         true,
			IsFeatured:       false,
		}
		options := make([]tables.ProductOption, 0, len(row.Options))
		for j, o := range row.Options {
			options = append(options, tables.ProductOption{
				OptionName:    o.Name,
				PriceModifier: o.PriceModifier,
				DisplayOrder:  j,
			})
		}

		if err := is.store.CreateProduct(ctx, product, options); err != nil {
			is.logger.Error("Import failed on product",
				gecho.Field("line", row.Line),
				gecho.Field("name", row.Name),
				gecho.Field("imported", stats.Products),
				gecho.Field("error", err),
			)
			return nil, fmt.Errorf("line %d: product %q: %w", row.Line, row.Name, err)
		}

		stats.Products++
		ImportedProducts.Inc()
		stats.Options += len(options)
	}
	stats.Categories = len(categoryIDs)

	is.logger.Info("Catalog import finished",
		gecho.Field("products", stats.Products),
		gecho.Field("options", stats.Options),
		gecho.Field("categories", stats.Categories),
		gecho.Field("duration", time.Since(started)),
	)

	return &structs.ImportResult{Success: true, Message: ImportSuccessMessage, Stats: stats}, nil
}

// ParseCatalogCSV reads the header-keyed catalog file. Blank lines are skipped.
func ParseCatalogCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrImportNoData
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lib.ErrValidation, err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		columns[name] = i
	}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			return nil, ErrImportBadHeader
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", lib.ErrValidation, err)
		}
		line, _ := reader.FieldPos(0)
		if isBlankRecord(record) {
			continue
		}

		row := ImportRow{
			Line:      line,
			Category:  field(record, "category"),
			Name:      field(record, "name"),
			UnitLabel: field(record, "unit_label"),
			Notes:     field(record, "notes"),
			Options:   ParseOptions(field(record, "options")),
		}
		if row.Category == "" || row.Name == "" {
			return nil, fmt.Errorf("%w: line %d: category and name are required", lib.ErrValidation, line)
		}
		price, err := decimal.NewFromString(field(record, "base_price"))
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("%w: line %d: invalid base_price %q", lib.ErrValidation, line, field(record, "base_price"))
		}
		row.BasePrice = price.Round(2)

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	return rows, nil
}

// ParseOptions splits a "|" separated option list. A "(+42)" or "(-5)" suffix
// becomes the price modifier and is removed from the label.
func ParseOptions(raw string) []ParsedOption {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []ParsedOption{}
	}

	options := []ParsedOption{}
	for part := range strings.SplitSeq(raw, "|") {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}

		modifier := decimal.Zero
		if m := optionModifier.FindStringSubmatch(text); m != nil {
			if n, err := decimal.NewFromString(m[1]); err == nil {
				modifier = n
			}
		}
		name := text
		if loc := optionModifierStrip.FindStringIndex(text); loc != nil {
			name = text[:loc[0]] + text[loc[1]:]
		}

		options = append(options, ParsedOption{Name: strings.TrimSpace(name), PriceModifier: modifier})
	}
	return options
}

// MaxOptionsFromNotes reads how many options a customer may combine from the
// free-text notes of the catalog file.
func MaxOptionsFromNotes(notes string) int {
	switch {
	case strings.Contains(notes, "ניתן לשלב 2 סוגים"):
		return 2
	case strings.Contains(notes, "ניתן לשלב 3 סוגים"):
		return 3
	default:
		return 1
	}
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
