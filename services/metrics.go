package services

import "github.com/prometheus/client_golang/prometheus"

// Domain counters. They are registered by the health routes together with the
// HTTP collectors.
var (
	CheckoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "breadstation",
			Subsystem: "checkout",
			Name:      "handoffs_total",
			Help:      "Checkouts handed to WhatsApp by delivery zone",
		},
		[]string{"zone"},
	)

	ImportedProducts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "breadstation",
			Subsystem: "import",
			Name:      "products_total",
			Help:      "Products created by the catalog importer",
		},
	)

	DeliveryResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "breadstation",
			Subsystem: "delivery",
			Name:      "resolutions_total",
			Help:      "Address resolutions by outcome",
		},
		[]string{"result"},
	)

	MapsLookups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "breadstation",
			Subsystem: "delivery",
			Name:      "maps_lookups_total",
			Help:      "Geocoding and distance lookups that missed the cache",
		},
	)
)

// Collectors lists every domain collector for registration
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{CheckoutsTotal, ImportedProducts, DeliveryResolutions, MapsLookups}
}
