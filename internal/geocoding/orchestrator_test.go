package geocoding_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/havenwell/waypoint/internal/geocoding"
	"github.com/havenwell/waypoint/internal/metrics"
	"github.com/havenwell/waypoint/internal/models"
	"github.com/havenwell/waypoint/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(primary, secondary geocoding.Provider) *geocoding.Orchestrator {
	return geocoding.NewOrchestrator(geocoding.OrchestratorConfig{
		Primary:        primary,
		Secondary:      secondary,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:        metrics.NewMetrics(prometheus.NewRegistry()),
		AttemptTimeout: time.Second,
		RetryBackoff:   time.Millisecond,
	})
}

func TestOrchestrator_Resolve(t *testing.T) {
	ctx := t.Context()
	code := models.NormalizedCode{Raw: "10001", Normalized: "10001", Country: models.CountryUS}
	coords := &models.Coordinates{Latitude: 40.7484, Longitude: -73.9967, Country: models.CountryUS}

	t.Run("primary succeeds on first attempt", func(t *testing.T) {
		primary := mocks.NewProvider(t)
		secondary := mocks.NewProvider(t)
		primary.On("Geocode", mock.Anything, code).Return(coords, nil).Once()

		got, used := newTestOrchestrator(primary, secondary).Resolve(ctx, code)

		assert.Equal(t, coords, got)
		assert.Equal(t, models.GeocoderPrimary, used)
		secondary.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("primary succeeds on retry", func(t *testing.T) {
		primary := mocks.NewProvider(t)
		secondary := mocks.NewProvider(t)
		primary.On("Geocode", mock.Anything, code).Return(nil, assert.AnError).Once()
		primary.On("Geocode", mock.Anything, code).Return(coords, nil).Once()

		got, used := newTestOrchestrator(primary, secondary).Resolve(ctx, code)

		assert.Equal(t, coords, got)
		assert.Equal(t, models.GeocoderPrimary, used)
		secondary.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("falls back to secondary after two primary failures", func(t *testing.T) {
		primary := mocks.NewProvider(t)
		secondary := mocks.NewProvider(t)
		primary.On("Geocode", mock.Anything, code).Return(nil, assert.AnError).Twice()
		secondary.On("Geocode", mock.Anything, code).Return(coords, nil).Once()

		got, used := newTestOrchestrator(primary, secondary).Resolve(ctx, code)

		assert.Equal(t, coords, got)
		assert.Equal(t, models.GeocoderSecondary, used)
	})

	t.Run("all four attempts exhausted returns none", func(t *testing.T) {
		primary := mocks.NewProvider(t)
		secondary := mocks.NewProvider(t)
		primary.On("Geocode", mock.Anything, code).Return(nil, assert.AnError).Twice()
		secondary.On("Geocode", mock.Anything, code).Return(nil, assert.AnError).Twice()

		got, used := newTestOrchestrator(primary, secondary).Resolve(ctx, code)

		assert.Nil(t, got)
		assert.Equal(t, models.GeocoderNone, used)
	})

	t.Run("missing primary goes straight to secondary", func(t *testing.T) {
		secondary := mocks.NewProvider(t)
		secondary.On("Geocode", mock.Anything, code).Return(coords, nil).Once()

		got, used := newTestOrchestrator(nil, secondary).Resolve(ctx, code)

		assert.Equal(t, coords, got)
		assert.Equal(t, models.GeocoderSecondary, used)
	})

	t.Run("no providers configured returns none", func(t *testing.T) {
		got, used := newTestOrchestrator(nil, nil).Resolve(ctx, code)

		assert.Nil(t, got)
		assert.Equal(t, models.GeocoderNone, used)
	})

	t.Run("cancelled context stops the chain between attempts", func(t *testing.T) {
		primary := mocks.NewProvider(t)

		orch := geocoding.NewOrchestrator(geocoding.OrchestratorConfig{
			Primary:        primary,
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
			Metrics:        metrics.NewMetrics(prometheus.NewRegistry()),
			AttemptTimeout: time.Second,
			RetryBackoff:   time.Minute, // Long enough that only cancellation ends the wait.
		})

		cancelCtx, cancel := context.WithCancel(ctx)
		primary.On("Geocode", mock.Anything, code).
			Run(func(mock.Arguments) { cancel() }).
			Return(nil, assert.AnError).Once()

		got, used := orch.Resolve(cancelCtx, code)

		require.Nil(t, got)
		assert.Equal(t, models.GeocoderNone, used)
	})
}
