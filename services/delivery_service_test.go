package services

import (
	"breadstation_server/cart"
	"breadstation_server/structs"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

type fakeMaps struct {
	meters       int
	status       string
	results      []maps.GeocodingResult
	geocodeCalls int
	lastMatrix   *maps.DistanceMatrixRequest
}

func (f *fakeMaps) Geocode(_ context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	f.geocodeCalls++
	if r.Address == "" {
		return nil, errors.New("empty address")
	}
	return f.results, nil
}

func (f *fakeMaps) DistanceMatrix(_ context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error) {
	f.lastMatrix = r
	return &maps.DistanceMatrixResponse{
		Rows: []maps.DistanceMatrixElementsRow{{
			Elements: []*maps.DistanceMatrixElement{{
				Status:   f.status,
				Distance: maps.Distance{Meters: f.meters},
			}},
		}},
	}, nil
}

func nahariyaResult() []maps.GeocodingResult {
	return []maps.GeocodingResult{{
		FormattedAddress: "הגעתון 10, נהריה, ישראל",
		AddressComponents: []maps.AddressComponent{
			{LongName: "10", Types: []string{"street_number"}},
			{LongName: "הגעתון", Types: []string{"route"}},
			{LongName: "נהריה", Types: []string{"locality", "political"}},
		},
		Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 33.0058, Lng: 35.0947}},
	}}
}

func testStoreConfig() *structs.Config {
	return &structs.Config{
		Store: &structs.StoreConfig{OriginLat: 32.9276, OriginLng: 35.0838, Currency: "₪", WhatsAppPhone: "972502670040"},
		Maps:  &structs.MapsConfig{Language: "iw", Region: "il"},
		Cache: &structs.CacheConfig{GeocodeTTL: time.Hour},
	}
}

func TestResolveClassifiesByDrivingDistance(t *testing.T) {
	tests := []struct {
		name   string
		meters int
		zone   cart.Zone
		fee    int64
	}{
		{"inside akko", 4200, cart.ZoneAkko, 0},
		{"local boundary", 15000, cart.ZoneAkko, 0},
		{"just outside local", 15001, cart.ZoneOutsideAkko, 50},
		{"service boundary", 50000, cart.ZoneOutsideAkko, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeMaps{meters: tt.meters, status: "OK", results: nahariyaResult()}
			svc := NewDeliveryService(testLogger, client, nil, cart.DefaultRules(), testStoreConfig())

			res, err := svc.Resolve(context.Background(), "הגעתון 10 נהריה")
			require.NoError(t, err)
			assert.Equal(t, tt.zone, res.Zone)
			assert.Equal(t, tt.fee, res.DeliveryFee.IntPart())
			assert.Equal(t, "נהריה", res.City)
			assert.Equal(t, "הגעתון", res.Street)
			assert.Equal(t, "10", res.HouseNumber)
			assert.Equal(t, []string{"32.9276,35.0838"}, client.lastMatrix.Origins)
			assert.Equal(t, maps.TravelModeDriving, client.lastMatrix.Mode)
		})
	}
}

func TestResolveRejectsOutOfArea(t *testing.T) {
	client := &fakeMaps{meters: 73400, status: "OK", results: nahariyaResult()}
	svc := NewDeliveryService(testLogger, client, nil, cart.DefaultRules(), testStoreConfig())

	_, err := svc.Resolve(context.Background(), "חיפה")
	require.Error(t, err)
	assert.ErrorIs(t, err, cart.ErrOutOfServiceArea)

	var outOfArea *OutOfAreaError
	require.ErrorAs(t, err, &outOfArea)
	assert.InDelta(t, 73.4, outOfArea.DistanceKm, 0.001)
	assert.Contains(t, err.Error(), "73.4")
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()

	svc := NewDeliveryService(testLogger, &fakeMaps{status: "OK"}, nil, cart.DefaultRules(), testStoreConfig())
	_, err := svc.Resolve(ctx, "nowhere")
	assert.ErrorIs(t, err, ErrAddressNotFound)

	svc = NewDeliveryService(testLogger, &fakeMaps{status: "ZERO_RESULTS", results: nahariyaResult()}, nil, cart.DefaultRules(), testStoreConfig())
	_, err = svc.Resolve(ctx, "island")
	assert.ErrorIs(t, err, ErrNoRoute)

	svc = NewDeliveryService(testLogger, nil, nil, cart.DefaultRules(), testStoreConfig())
	_, err = svc.Resolve(ctx, "anything")
	assert.ErrorIs(t, err, ErrMapsDisabled)
}

func TestResolveCachesByNormalizedAddress(t *testing.T) {
	client := &fakeMaps{meters: 3000, status: "OK", results: nahariyaResult()}
	svc := NewDeliveryService(testLogger, client, newMemoryCache(), cart.DefaultRules(), testStoreConfig())

	_, err := svc.Resolve(context.Background(), "Ben Ami 5  Akko")
	require.NoError(t, err)
	res, err := svc.Resolve(context.Background(), " ben ami 5 akko")
	require.NoError(t, err)

	assert.Equal(t, 1, client.geocodeCalls)
	assert.Equal(t, cart.ZoneAkko, res.Zone)
}
