package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcome labels.
const (
	OutcomeResolved    = "resolved"
	OutcomeCached      = "cached"
	OutcomeDegraded    = "degraded"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

type Metrics struct {
	Lookups                *prometheus.CounterVec
	ProviderRequestSeconds *prometheus.HistogramVec
	ProviderErrors         *prometheus.CounterVec
	CacheEntries           prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Lookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_lookups_total",
			Help: "Total number of postal-code lookups by outcome.",
		}, []string{"outcome"}),
		ProviderRequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "waypoint_geocode_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider APIs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ProviderErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_geocode_provider_errors_total",
			Help: "Total number of errors received from the geocoding provider APIs.",
		}, []string{"provider"}),
		CacheEntries: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "waypoint_cache_entries",
			Help: "Current number of live entries in the result cache.",
		}),
	}
}
