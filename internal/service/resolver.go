// Package service wires the resolution pipeline together: admission
// control, validation, cache, geocoding, distance matching and
// response composition.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/havenwell/waypoint/internal/cache"
	"github.com/havenwell/waypoint/internal/catalog"
	"github.com/havenwell/waypoint/internal/geodist"
	"github.com/havenwell/waypoint/internal/metrics"
	"github.com/havenwell/waypoint/internal/models"
	"github.com/havenwell/waypoint/internal/postal"
	"github.com/havenwell/waypoint/internal/ratelimit"
	"github.com/havenwell/waypoint/internal/repository"
)

// Matching and composition constants.
const (
	// matchRadiusMi bounds how far away a directory location may be and
	// still count as local.
	matchRadiusMi = 25.0
	// maxLocalResults caps the locals list after distance sorting.
	maxLocalResults = 10
	// Fallback strings substituted for missing directory fields, so
	// callers never need null-checks on phone or website.
	fallbackPhone   = "Phone not available"
	fallbackWebsite = "Website not available"
	// degradedMessage is the advisory error carried by nationals-only
	// responses.
	degradedMessage = "Could not locate postal code"
)

// Geocoder resolves a normalized code into coordinates with a
// provenance label. Implemented by geocoding.Orchestrator.
type Geocoder interface {
	Resolve(ctx context.Context, code models.NormalizedCode) (*models.Coordinates, string)
}

// RateLimitError is returned when a client exceeds its admission quota.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.RetryAfter)
}

// Health is the operational status report. Geocoder names the provider
// slot that is configured as primary, based on present credentials; it
// is a configuration check, not a live probe.
type Health struct {
	Ok        bool   `json:"ok"`
	Geocoder  string `json:"geocoder"`
	CacheSize int    `json:"cacheSize"`
}

// Resolver turns a raw postal code into a ranked resource list. All
// state is injected at construction so tests can run isolated
// instances.
type Resolver struct {
	log                *slog.Logger
	repo               repository.Interface
	geocoder           Geocoder
	store              cache.Store
	limiter            *ratelimit.Limiter
	metrics            *metrics.Metrics
	recorder           Recorder
	configuredGeocoder string
	resolvedTTL        time.Duration
	degradedTTL        time.Duration
}

// NewResolver creates a Resolver. configuredGeocoder names the provider
// slot with valid credentials ("primary" or "secondary"); resolvedTTL
// and degradedTTL control how long full and nationals-only resolutions
// stay cached. Degraded entries get the shorter TTL so a transient
// provider outage heals quickly instead of being cached for an hour.
func NewResolver(
	log *slog.Logger,
	repo repository.Interface,
	geocoder Geocoder,
	store cache.Store,
	limiter *ratelimit.Limiter,
	appMetrics *metrics.Metrics,
	recorder Recorder,
	configuredGeocoder string,
	resolvedTTL time.Duration,
	degradedTTL time.Duration,
) *Resolver {
	return &Resolver{
		log:                log,
		repo:               repo,
		geocoder:           geocoder,
		store:              store,
		limiter:            limiter,
		metrics:            appMetrics,
		recorder:           recorder,
		configuredGeocoder: configuredGeocoder,
		resolvedTTL:        resolvedTTL,
		degradedTTL:        degradedTTL,
	}
}

// Resolve runs the full pipeline for one request. Rate-limited and
// invalid requests fail before any provider call or cache mutation.
// Provider outages degrade to a nationals-only response rather than an
// error; only a directory failure propagates.
func (r *Resolver) Resolve(ctx context.Context, clientID, rawCode, countryHint string) (*models.ResolvedResponse, error) {
	decision := r.limiter.Admit(clientID)
	if !decision.Allowed {
		r.metrics.Lookups.WithLabelValues(metrics.OutcomeRateLimited).Inc()
		r.log.DebugContext(ctx, "Request rejected by rate limiter", "client", clientID)
		return nil, &RateLimitError{RetryAfter: decision.RetryAfter}
	}

	code, err := postal.Normalize(rawCode, countryHint)
	if err != nil {
		r.metrics.Lookups.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	startTime := time.Now()
	key := code.CacheKey()

	cached, found, err := r.store.Get(ctx, key)
	if err != nil {
		// A broken cache backend must not take down resolution.
		r.log.WarnContext(ctx, "Cache read failed, treating as miss", "key", key, "error", err)
	}
	if found {
		cached.Cached = true
		cached.LatencyMs = time.Since(startTime).Milliseconds()
		r.metrics.Lookups.WithLabelValues(metrics.OutcomeCached).Inc()
		r.record(ctx, code, metrics.OutcomeCached, cached.Geocoder, cached.LatencyMs)
		return &cached, nil
	}

	coords, provider := r.geocoder.Resolve(ctx, code)
	if coords == nil {
		response := compose(nil, nil, code.Country, models.GeocoderNone, time.Since(startTime))
		response.Error = degradedMessage
		r.putCache(ctx, key, *response, r.degradedTTL)
		r.metrics.Lookups.WithLabelValues(metrics.OutcomeDegraded).Inc()
		r.record(ctx, code, metrics.OutcomeDegraded, models.GeocoderNone, response.LatencyMs)
		return response, nil
	}

	candidates, err := r.repo.ListActiveLocations(ctx)
	if err != nil {
		// Without the directory there is no meaningful locals list;
		// this is the one internal failure that propagates.
		r.metrics.Lookups.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("failed to list directory locations: %w", err)
	}

	locals := matchLocations(*coords, candidates)
	response := compose(locals, coords, code.Country, provider, time.Since(startTime))
	r.putCache(ctx, key, *response, r.resolvedTTL)
	r.metrics.Lookups.WithLabelValues(metrics.OutcomeResolved).Inc()
	r.record(ctx, code, metrics.OutcomeResolved, provider, response.LatencyMs)

	return response, nil
}

// Health reports operational status for the health endpoint.
func (r *Resolver) Health(ctx context.Context) Health {
	size, err := r.store.Len(ctx)
	if err != nil {
		r.log.WarnContext(ctx, "Cache size check failed", "error", err)
		return Health{Ok: false, Geocoder: r.configuredGeocoder}
	}

	r.metrics.CacheEntries.Set(float64(size))

	return Health{Ok: true, Geocoder: r.configuredGeocoder, CacheSize: size}
}

func (r *Resolver) putCache(ctx context.Context, key string, value models.ResolvedResponse, ttl time.Duration) {
	if err := r.store.Put(ctx, key, value, ttl); err != nil {
		r.log.WarnContext(ctx, "Cache write failed", "key", key, "error", err)
	}
}

func (r *Resolver) record(ctx context.Context, code models.NormalizedCode, outcome, geocoder string, latencyMs int64) {
	if r.recorder == nil {
		return
	}
	r.recorder.RecordLookup(ctx, LookupEvent{
		Code:      code.Normalized,
		Country:   code.Country,
		Outcome:   outcome,
		Geocoder:  geocoder,
		LatencyMs: latencyMs,
	})
}

// matchLocations distances every candidate against the resolved
// coordinate, keeps those within the radius, sorts ascending and
// truncates.
func matchLocations(origin models.Coordinates, candidates []models.LocationRecord) []models.ProviderResult {
	results := make([]models.ProviderResult, 0, len(candidates))

	for _, candidate := range candidates {
		dist := geodist.Between(origin, models.Coordinates{
			Latitude:  candidate.Latitude,
			Longitude: candidate.Longitude,
		})
		if dist.Mi > matchRadiusMi {
			continue
		}

		result := models.ProviderResult{
			Name:        candidate.Name,
			Description: candidate.Type,
			Website:     candidate.Website,
			Phone:       candidate.Phone,
			DistanceKm:  roundHundredth(dist.Km),
			DistanceMi:  roundHundredth(dist.Mi),
			Type:        models.ResourceTypeLocal,
		}
		if result.Phone == "" {
			result.Phone = fallbackPhone
		}
		if result.Website == "" {
			result.Website = fallbackWebsite
		}

		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceMi < results[j].DistanceMi
	})
	if len(results) > maxLocalResults {
		results = results[:maxLocalResults]
	}

	return results
}

// compose assembles the final payload. Locals may be nil in degraded
// mode; nationals are always populated from the catalog.
func compose(
	locals []models.ProviderResult,
	location *models.Coordinates,
	country string,
	geocoder string,
	elapsed time.Duration,
) *models.ResolvedResponse {
	if locals == nil {
		locals = []models.ProviderResult{}
	}
	nationals := catalog.For(country)

	return &models.ResolvedResponse{
		Locals:        locals,
		Nationals:     nationals,
		Location:      location,
		Country:       country,
		Geocoder:      geocoder,
		LatencyMs:     elapsed.Milliseconds(),
		Cached:        false,
		LocalCount:    len(locals),
		NationalCount: len(nationals),
	}
}

func roundHundredth(value float64) float64 {
	return math.Round(value*100) / 100
}
