package carts

import (
	"breadstation_server/cart"
	"breadstation_server/lib"
	"breadstation_server/services"
	"breadstation_server/structs"
	"breadstation_server/structs/tables"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProducts serves products by id; the rest of the store is unused here
type stubProducts struct {
	services.ProductStore
	byID map[uuid.UUID]tables.Product
}

func (s *stubProducts) GetProductByID(_ context.Context, id uuid.UUID) (*tables.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return &p, nil
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type testServer struct {
	router  chi.Router
	bread   tables.Product
	retired tables.Product
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := gecho.NewDefaultLogger()

	bread := tables.Product{
		ID: uuid.New(), Name: "חלה", Slug: "challah", Price: decimal.NewFromInt(30),
		IsActive: true, MaxOptionsSelect: 1, PrepTimeDays: 2,
	}
	bread.Options = []tables.ProductOption{{ID: uuid.New(), ProductID: bread.ID, OptionName: "שומשום", PriceModifier: decimal.NewFromInt(4)}}
	retired := tables.Product{ID: uuid.New(), Name: "old", Price: decimal.NewFromInt(10)}

	store := &stubProducts{byID: map[uuid.UUID]tables.Product{bread.ID: bread, retired.ID: retired}}
	cfg := &structs.Config{
		Store: &structs.StoreConfig{OriginLat: 32.9276, OriginLng: 35.0838, Currency: "₪", WhatsAppPhone: "972502670040"},
		Maps:  &structs.MapsConfig{},
		Cache: &structs.CacheConfig{},
	}
	rules := cart.DefaultRules()

	products := services.NewProductService(logger, store, nil, 0)
	delivery := services.NewDeliveryService(logger, nil, nil, rules, cfg)
	carts := services.NewCartService(logger, cart.NewMemoryStore(), products, delivery, rules)
	checkout := services.NewCheckoutService(logger, cfg.Store, rules, nil)

	r := chi.NewRouter()
	NewCartRoutesManager(logger, carts, checkout).RegisterRoutes(r)
	return &testServer{router: r, bread: bread, retired: retired}
}

func (s *testServer) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func cartCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == lib.CartCookieName {
			return c
		}
	}
	return nil
}

func TestSessionCartRoundTrip(t *testing.T) {
	s := newTestServer(t)

	body := `{"product_id":"` + s.bread.ID.String() + `","option_ids":["` + s.bread.Options[0].ID.String() + `"],"quantity":2}`
	w := s.do(http.MethodPost, "/cart/items", body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookie := cartCookie(w)
	require.NotNil(t, cookie, "cart cookie issued")
	assert.True(t, cookie.HttpOnly)

	w = s.do(http.MethodGet, "/cart", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[services.CartView](t, w)
	assert.Equal(t, cookie.Value, view.ID)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "68", view.Quote.Subtotal.String())

	w = s.do(http.MethodPatch, "/cart/items/"+view.Lines[0].ID, `{"quantity":0}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[services.CartView](t, w).Lines)

	w = s.do(http.MethodDelete, "/cart/items/"+view.Lines[0].ID, "", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItemRejections(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"product_id":`, http.StatusBadRequest},
		{"unknown field", `{"product_id":"` + s.bread.ID.String() + `","quantity":1,"price":1}`, http.StatusBadRequest},
		{"zero quantity", `{"product_id":"` + s.bread.ID.String() + `","quantity":0}`, http.StatusBadRequest},
		{"inactive product", `{"product_id":"` + s.retired.ID.String() + `","quantity":1}`, http.StatusBadRequest},
		{"unknown product", `{"product_id":"` + uuid.NewString() + `","quantity":1}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/cart/items", tt.body, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Nil(t, cartCookie(w))
		})
	}
}

func TestCheckoutClientCart(t *testing.T) {
	s := newTestServer(t)
	date := time.Now().AddDate(0, 0, 5).Format(cart.DateLayout)

	body := `{
		"cart": {
			"lines": [{"product_id":"` + s.bread.ID.String() + `","quantity":3}],
			"delivery": {"date":"` + date + `","time_slot":"10:00-12:00","location":"pickup"}
		},
		"customer": {"name":"נועה","phone":"0521234567"}
	}`
	w := s.do(http.MethodPost, "/checkout", body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[services.CheckoutResult](t, w)
	assert.True(t, strings.HasPrefix(result.WhatsAppURL, "https://wa.me/972502670040?text="))
	assert.Equal(t, "90", result.Quote.Total.String())
	assert.Contains(t, result.Message, result.Reference)
}

func TestCheckoutEmptySessionCart(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/cart/checkout", `{"customer":{"name":"נועה","phone":"0521234567"}}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeliveryAddressWithoutMaps(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPut, "/cart/delivery", `{"address":"בן עמי 5 עכו"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
