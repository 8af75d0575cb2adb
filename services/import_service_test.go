package services

import (
	"breadstation_server/lib"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `category,name,unit_label,base_price,notes,options
מאפים,קרואסון חמאה,יחידה,12,,
מגשי אירוח,מגש כריכים,מגש,240,ניתן לשלב 2 סוגים,טונה | סלמון (+42) | ביצים (-5)

מאפים,Sourdough Loaf,כיכר,35.5,,
`

var slugAlphabet = regexp.MustCompile(`^[\x{0590}-\x{05FF}a-z0-9-]+$`)

func newTestImportService(store ImportStore, cache Cache) *ImportService {
	is := NewImportService(testLogger, store, cache)
	is.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return is
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []ParsedOption
	}{
		{"empty", "", []ParsedOption{}},
		{"blank parts dropped", " | |", []ParsedOption{}},
		{
			name: "modifiers extracted and stripped",
			raw:  "טונה | סלמון (+42) | ביצים (-5)",
			expected: []ParsedOption{
				{Name: "טונה", PriceModifier: decimal.Zero},
				{Name: "סלמון", PriceModifier: decimal.NewFromInt(42)},
				{Name: "ביצים", PriceModifier: decimal.NewFromInt(-5)},
			},
		},
		{
			name:     "modifier wider than int64 keeps its value",
			raw:      "סלמון (+99999999999999999999)",
			expected: []ParsedOption{{Name: "סלמון", PriceModifier: decimal.RequireFromString("99999999999999999999")}},
		},
		{
			name:     "unsigned number is part of the label",
			raw:      "מגש (12)",
			expected: []ParsedOption{{Name: "מגש (12)", PriceModifier: decimal.Zero}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOptions(tt.raw)
			require.Len(t, got, len(tt.expected))
			for i := range got {
				assert.Equal(t, tt.expected[i].Name, got[i].Name)
				assert.True(t, tt.expected[i].PriceModifier.Equal(got[i].PriceModifier), "modifier %s", got[i].PriceModifier)
			}
		})
	}
}

func TestMaxOptionsFromNotes(t *testing.T) {
	assert.Equal(t, 1, MaxOptionsFromNotes(""))
	assert.Equal(t, 2, MaxOptionsFromNotes("מגש גדול, ניתן לשלב 2 סוגים"))
	assert.Equal(t, 3, MaxOptionsFromNotes("ניתן לשלב 3 סוגים בהזמנה"))
	assert.Equal(t, 1, MaxOptionsFromNotes("ניתן לשלב סוגים"))
}

func TestParseCatalogCSVRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty file", "", ErrImportNoData},
		{"header only", "category,name,unit_label,base_price,notes,options\n", ErrImportNoData},
		{"missing column", "category,title,base_price\nא,ב,1\n", ErrImportBadHeader},
		{"bad price", "category,name,base_price\nא,ב,abc\n", lib.ErrValidation},
		{"negative price", "category,name,base_price\nא,ב,-3\n", lib.ErrValidation},
		{"missing name", "category,name,base_price\nא,,3\n", lib.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalogCSV(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestImportCreatesCatalog(t *testing.T) {
	store := newMemoryCatalog()
	cache := newMemoryCache()
	is := newTestImportService(store, cache)

	result, err := is.Import(context.Background(), strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, ImportSuccessMessage, result.Message)
	assert.Equal(t, 3, result.Stats.Products)
	assert.Equal(t, 3, result.Stats.Options)
	assert.Equal(t, 2, result.Stats.Categories)

	require.Len(t, store.categories, 2)
	assert.Equal(t, "מאפים", store.categories[0].Slug)
	assert.Equal(t, 0, store.categories[0].DisplayOrder)
	assert.Equal(t, "מגשי-אירוח", store.categories[1].Slug)
	assert.Equal(t, 1, store.categories[1].DisplayOrder)

	require.Len(t, store.products, 3)
	platter := store.products[1]
	assert.Equal(t, "מגש כריכים", platter.Name)
	assert.Equal(t, 2, platter.MaxOptionsSelect)
	assert.Equal(t, 2, platter.PrepTimeDays)
	assert.True(t, platter.IsActive)
	assert.False(t, platter.IsFeatured)
	assert.Equal(t, store.categories[1].ID, platter.CategoryID)
	require.Len(t, platter.Options, 3)
	assert.Equal(t, "סלמון", platter.Options[1].OptionName)
	assert.Equal(t, 1, platter.Options[1].DisplayOrder)

	assert.Equal(t, store.categories[0].ID, store.products[2].CategoryID, "category reused within the run")
	assert.Equal(t, "sourdough-loaf-1700000000002", store.products[2].Slug)

	for _, p := range store.products {
		assert.Regexp(t, slugAlphabet, p.Slug)
	}
	assert.Contains(t, cache.invalidations, catalogPrefix+"*")
}

func TestImportTwiceDuplicatesProducts(t *testing.T) {
	store := newMemoryCatalog()
	is := NewImportService(testLogger, store, nil)

	_, err := is.Import(context.Background(), strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	// a later run gets a later token, so the slugs never collide
	is.now = func() time.Time { return time.Now().Add(time.Minute) }
	second, err := is.Import(context.Background(), strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, 3, second.Stats.Products)
	assert.Len(t, store.products, 6)
	assert.Len(t, store.categories, 2, "categories are upserted by slug")
}

func TestImportKeepsRowsBeforeFailure(t *testing.T) {
	store := newMemoryCatalog()
	store.failCreateProductAfter = 1
	is := newTestImportService(store, nil)

	_, err := is.Import(context.Background(), strings.NewReader(sampleCatalog))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "מגש כריכים")
	assert.Len(t, store.products, 1)
}
