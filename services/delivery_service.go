package services

import (
	"breadstation_server/cart"
	"breadstation_server/lib"
	"breadstation_server/structs"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"
	"googlemaps.github.io/maps"
)

var (
	ErrAddressNotFound = fmt.Errorf("%w: address not found", lib.ErrValidation)
	ErrNoRoute         = errors.New("could not calculate driving distance")
	ErrMapsDisabled    = errors.New("address lookup is not configured")
)

// MapsClient is the part of the Google Maps client the resolver uses
type MapsClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

// DeliveryResolution is a geocoded address with its driving distance from the shop
type DeliveryResolution struct {
	FormattedAddress string          `json:"formatted_address"`
	City             string          `json:"city"`
	Street           string          `json:"street"`
	HouseNumber      string          `json:"house_number"`
	Lat              float64         `json:"lat"`
	Lng              float64         `json:"lng"`
	DistanceKm       float64         `json:"distance_km"`
	Zone             cart.Zone       `json:"zone,omitempty"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
}

// OutOfAreaError reports how far outside the service radius an address is
type OutOfAreaError struct {
	DistanceKm float64
	RadiusKm   float64
}

func (e *OutOfAreaError) Error() string {
	return fmt.Sprintf("הכתובת שנבחרה נמצאת %.1f ק\"מ מעכו. אנחנו מספקים שירות רק ברדיוס %.0f ק\"מ.", e.DistanceKm, e.RadiusKm)
}

func (e *OutOfAreaError) Unwrap() error {
	return cart.ErrOutOfServiceArea
}

type DeliveryService struct {
	logger *gecho.Logger
	client MapsClient
	cache  Cache
	rules  cart.Rules
	cfg    *structs.MapsConfig
	origin string
	ttl    time.Duration
}

func NewDeliveryService(logger *gecho.Logger, client MapsClient, cache Cache, rules cart.Rules, cfg *structs.Config) *DeliveryService {
	if cache == nil {
		cache = noopCache{}
	}
	origin := maps.LatLng{Lat: cfg.Store.OriginLat, Lng: cfg.Store.OriginLng}
	return &DeliveryService{
		logger: logger,
		client: client,
		cache:  cache,
		rules:  rules,
		cfg:    cfg.Maps,
		origin: origin.String(),
		ttl:    cfg.Cache.GeocodeTTL,
	}
}

// NewMapsClient builds the Google Maps client, or returns nil without a key
func NewMapsClient(cfg *structs.MapsConfig) (MapsClient, error) {
	if cfg == nil || cfg.ApiKey == "" {
		return nil, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(cfg.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return client, nil
}

// Resolve geocodes the address, measures the driving distance from the shop and
// classifies it into a delivery zone. Addresses beyond the service radius
// return an *OutOfAreaError.
func (ds *DeliveryService) Resolve(ctx context.Context, address string) (*DeliveryResolution, error) {
	normalized := normalizeAddress(address)
	if normalized == "" {
		return nil, lib.NewValidationError("address", "address is required")
	}

	res, err := cached(ctx, ds.cache, ds.logger, geocodeKey(normalized), ds.ttl, func() (*DeliveryResolution, error) {
		return ds.lookup(ctx, address)
	})
	if err != nil {
		DeliveryResolutions.WithLabelValues("error").Inc()
		return nil, err
	}

	zone, err := ds.rules.ClassifyDistance(res.DistanceKm)
	if err != nil {
		DeliveryResolutions.WithLabelValues("out_of_area").Inc()
		return nil, &OutOfAreaError{DistanceKm: res.DistanceKm, RadiusKm: ds.rules.ServiceRadiusKm}
	}
	res.Zone = zone
	res.DeliveryFee = ds.rules.DeliveryFee(zone)
	DeliveryResolutions.WithLabelValues(string(zone)).Inc()
	return res, nil
}

func (ds *DeliveryService) lookup(ctx context.Context, address string) (*DeliveryResolution, error) {
	if ds.client == nil {
		return nil, ErrMapsDisabled
	}
	MapsLookups.Inc()

	results, err := ds.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  address,
		Language: ds.cfg.Language,
		Region:   ds.cfg.Region,
	})
	if err != nil {
		ds.logger.Error("Geocoding failed", gecho.Field("error", err))
		return nil, fmt.Errorf("geocode: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrAddressNotFound
	}

	place := results[0]
	res := &DeliveryResolution{
		FormattedAddress: place.FormattedAddress,
		Lat:              place.Geometry.Location.Lat,
		Lng:              place.Geometry.Location.Lng,
	}
	for _, c := range place.AddressComponents {
		for _, t := range c.Types {
			switch t {
			case "locality":
				res.City = c.LongName
			case "route":
				res.Street = c.LongName
			case "street_number":
				res.HouseNumber = c.LongName
			}
		}
	}

	matrix, err := ds.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{ds.origin},
		Destinations: []string{place.Geometry.Location.String()},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
		Language:     ds.cfg.Language,
	})
	if err != nil {
		ds.logger.Error("Distance matrix failed", gecho.Field("error", err))
		return nil, fmt.Errorf("%w: %v", ErrNoRoute, err)
	}
	if len(matrix.Rows) == 0 || len(matrix.Rows[0].Elements) == 0 {
		return nil, ErrNoRoute
	}
	element := matrix.Rows[0].Elements[0]
	if element.Status != "OK" || element.Distance.Meters <= 0 {
		return nil, fmt.Errorf("%w: status %s", ErrNoRoute, element.Status)
	}
	res.DistanceKm = float64(element.Distance.Meters) / 1000

	ds.logger.Debug("Address resolved",
		gecho.Field("city", res.City),
		gecho.Field("distance_km", res.DistanceKm),
	)
	return res, nil
}

// ApplyTo copies the resolved address and zone onto the cart's delivery fields
func (r *DeliveryResolution) ApplyTo(d *cart.Delivery) {
	d.Location = r.Zone
	d.City = r.City
	d.Street = r.Street
	d.HouseNumber = r.HouseNumber
	km := r.DistanceKm
	d.DistanceKm = &km
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func geocodeKey(normalized string) string {
	sum := blake2b.Sum256([]byte(normalized))
	return geocodePrefix + hex.EncodeToString(sum[:16])
}
