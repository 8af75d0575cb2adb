package services

import (
	"breadstation_server/lib"
	"breadstation_server/structs"
	"breadstation_server/structs/tables"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func seedProduct(store *memoryCatalog, categoryID uuid.UUID, name string, active bool, options ...tables.ProductOption) tables.Product {
	p := &tables.Product{
		Name:             name,
		Slug:             lib.Slugify(name),
		Price:            decimal.NewFromInt(100),
		CategoryID:       categoryID,
		IsActive:         active,
		MaxOptionsSelect: 1,
		PrepTimeDays:     2,
	}
	_ = store.CreateProduct(context.Background(), p, options)
	return *p
}

func TestDeleteCategoryRefusedWhileItOwnsProducts(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCatalog()
	cache := newMemoryCache()
	svc := NewCategoryService(testLogger, store, store, cache, time.Minute)
	products := NewProductService(testLogger, store, cache, time.Minute)

	category, err := svc.CreateCategory(ctx, &structs.CategoryRequest{Name: "עוגות"})
	require.NoError(t, err)
	assert.Equal(t, "עוגות", category.Slug)

	product := seedProduct(store, category.ID, "cheesecake", true)

	err = svc.DeleteCategory(ctx, category.ID)
	assert.ErrorIs(t, err, lib.ErrCategoryNotEmpty)
	_, err = svc.GetCategory(ctx, category.ID)
	assert.NoError(t, err, "category still exists")

	require.NoError(t, products.DeleteProduct(ctx, product.ID))
	require.NoError(t, svc.DeleteCategory(ctx, category.ID))

	_, err = svc.GetCategory(ctx, category.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestDeleteMissingCategory(t *testing.T) {
	store := newMemoryCatalog()
	svc := NewCategoryService(testLogger, store, store, nil, 0)

	err := svc.DeleteCategory(context.Background(), uuid.New())
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestUpdateCategorySlugInUse(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCatalog()
	svc := NewCategoryService(testLogger, store, store, nil, 0)

	_, err := svc.CreateCategory(ctx, &structs.CategoryRequest{Name: "Breads"})
	require.NoError(t, err)
	cakes, err := svc.CreateCategory(ctx, &structs.CategoryRequest{Name: "Cakes", DisplayOrder: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, cakes.DisplayOrder)

	_, err = svc.UpdateCategory(ctx, cakes.ID, &structs.CategoryRequest{Name: "Cakes", Slug: "breads"})
	assert.ErrorIs(t, err, lib.ErrSlugInUse)

	updated, err := svc.UpdateCategory(ctx, cakes.ID, &structs.CategoryRequest{Name: "Layer Cakes"})
	require.NoError(t, err)
	assert.Equal(t, "layer-cakes", updated.Slug)

	_, err = svc.UpdateCategory(ctx, cakes.ID, &structs.CategoryRequest{Name: "!!!"})
	assert.ErrorIs(t, err, lib.ErrValidation)
	_, err = svc.UpdateCategory(ctx, cakes.ID, &structs.CategoryRequest{Name: "Cakes", Slug: "?!"})
	assert.ErrorIs(t, err, lib.ErrValidation)

	stored, err := svc.GetCategory(ctx, cakes.ID)
	require.NoError(t, err)
	assert.Equal(t, "layer-cakes", stored.Slug)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "12", want: "12"},
		{raw: "12.5", want: "12.5"},
		{raw: "₪12.50", want: "12.5"},
		{raw: " 7 ₪", want: "7"},
		{raw: "cheap", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestCategoryPageIsCachedAndInvalidated(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCatalog()
	cache := newMemoryCache()
	svc := NewCategoryService(testLogger, store, store, cache, time.Minute)

	category, err := svc.CreateCategory(ctx, &structs.CategoryRequest{Name: "breads"})
	require.NoError(t, err)
	seedProduct(store, category.ID, "rye", true)
	seedProduct(store, category.ID, "hidden", false)

	page, err := svc.GetCategoryPage(ctx, "breads")
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "rye", page.Products[0].Name)

	seedProduct(store, category.ID, "spelt", true)
	page, err = svc.GetCategoryPage(ctx, "breads")
	require.NoError(t, err)
	assert.Len(t, page.Products, 1, "served from cache")

	_, err = svc.UpdateCategory(ctx, category.ID, &structs.CategoryRequest{Name: "breads"})
	require.NoError(t, err)
	page, err = svc.GetCategoryPage(ctx, "breads")
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
}

func TestGetProductBySlugHidesInactive(t *testing.T) {
	store := newMemoryCatalog()
	svc := NewProductService(testLogger, store, nil, 0)
	seedProduct(store, uuid.New(), "retired", false)

	_, err := svc.GetProductBySlug(context.Background(), "retired")
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestCreateAndReplaceProductOptions(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCatalog()
	svc := NewProductService(testLogger, store, nil, 0)
	categoryID := uuid.New()

	created, err := svc.CreateProduct(ctx, &structs.ProductRequest{
		Name:       "מגש גבינות",
		Price:      decimal.RequireFromString("180"),
		CategoryID: categoryID,
		Options: []structs.OptionRequest{
			{OptionName: "קטן"},
			{OptionName: "גדול", PriceModifier: decimal.NewFromInt(60)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "מגש-גבינות", created.Slug)
	assert.True(t, created.IsActive)
	assert.Equal(t, 2, created.PrepTimeDays)
	require.Len(t, created.Options, 2)
	assert.Equal(t, 1, created.Options[1].DisplayOrder)

	updated, err := svc.UpdateProduct(ctx, created.ID, &structs.ProductRequest{
		Name:         "מגש גבינות",
		Price:        decimal.RequireFromString("190"),
		CategoryID:   categoryID,
		IsActive:     boolPtr(false),
		PrepTimeDays: intPtr(3),
		Options:      []structs.OptionRequest{{OptionName: "משפחתי", PriceModifier: decimal.NewFromInt(90)}},
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	require.Len(t, updated.Options, 1)
	assert.Equal(t, "משפחתי", updated.Options[0].OptionName)
	assert.Equal(t, 0, updated.Options[0].DisplayOrder)

	stored, err := svc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("190").Equal(stored.Price))
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc := NewProductService(testLogger, newMemoryCatalog(), nil, 0)

	_, err := svc.CreateProduct(context.Background(), &structs.ProductRequest{
		Name:       "bad",
		Price:      decimal.NewFromInt(-1),
		CategoryID: uuid.New(),
	})
	assert.ErrorIs(t, err, lib.ErrValidation)
}

func TestResolveLineUsesCatalogPrices(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCatalog()
	svc := NewProductService(testLogger, store, nil, 0)

	product := seedProduct(store, uuid.New(), "platter", true,
		tables.ProductOption{OptionName: "tuna", PriceModifier: decimal.Zero},
		tables.ProductOption{OptionName: "salmon", PriceModifier: decimal.NewFromInt(42)},
	)
	salmon := product.Options[1].ID

	line, err := svc.ResolveLine(ctx, product.ID, []uuid.UUID{salmon}, 2)
	require.NoError(t, err)
	assert.Equal(t, "platter", line.ProductName)
	assert.True(t, decimal.NewFromInt(100).Equal(line.BasePrice))
	require.Len(t, line.Options, 1)
	assert.Equal(t, "salmon", line.Options[0].Name)
	assert.True(t, decimal.NewFromInt(42).Equal(line.Options[0].PriceModifier))

	_, err = svc.ResolveLine(ctx, product.ID, []uuid.UUID{product.Options[0].ID, salmon}, 1)
	assert.ErrorIs(t, err, lib.ErrTooManyOptions)

	_, err = svc.ResolveLine(ctx, product.ID, []uuid.UUID{uuid.New()}, 1)
	assert.ErrorIs(t, err, lib.ErrUnknownOption)

	inactive := seedProduct(store, uuid.New(), "gone", false)
	_, err = svc.ResolveLine(ctx, inactive.ID, nil, 1)
	assert.ErrorIs(t, err, lib.ErrProductInactive)
}

func TestGetAllProductsValidatesOptions(t *testing.T) {
	svc := NewProductService(testLogger, newMemoryCatalog(), nil, 0)

	_, err := svc.GetAllProducts(context.Background(), &ProductListOptions{SortBy: "password"})
	assert.ErrorIs(t, err, lib.ErrValidation)

	result, err := svc.GetAllProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Filters.Page)
	assert.Equal(t, 20, result.Filters.PageSize)
}

func TestBundleItemsDefaultToEmpty(t *testing.T) {
	store := newMemoryCatalog()
	svc := NewBundleService(testLogger, store, nil, 0)

	bundle, err := svc.CreateBundle(context.Background(), &structs.BundleRequest{
		Name:          "Brunch Box",
		Price:         decimal.NewFromInt(350),
		IncludedItems: structs.BundleItems{structs.LabelItem("קרואסון"), structs.DescribedItem{Name: "סלט", Description: "ירקות עונה"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "brunch-box", bundle.Slug)
	assert.NotNil(t, bundle.OptionalExtras)
	assert.Equal(t, []string{"קרואסון", "סלט"}, bundle.IncludedItems.Names())

	_, err = svc.CreateBundle(context.Background(), &structs.BundleRequest{Name: "brunch box", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, lib.ErrSlugInUse)
}

func TestSitemapEntries(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCatalog()
	categories := NewCategoryService(testLogger, store, store, nil, 0)
	category, err := categories.CreateCategory(ctx, &structs.CategoryRequest{Name: "breads"})
	require.NoError(t, err)
	seedProduct(store, category.ID, "rye", true)
	seedProduct(store, category.ID, "hidden", false)

	svc := NewSitemapService(testLogger, "https://www.breadstationakko.co.il/", store, store, store)
	entries, err := svc.Entries(ctx)
	require.NoError(t, err)

	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	assert.Contains(t, urls, "https://www.breadstationakko.co.il")
	assert.Contains(t, urls, "https://www.breadstationakko.co.il/categories/breads")
	assert.Contains(t, urls, "https://www.breadstationakko.co.il/products/rye")
	assert.NotContains(t, urls, "https://www.breadstationakko.co.il/products/hidden")
}
