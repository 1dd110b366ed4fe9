package geocoding

import (
	"context"
	"log/slog"
	"time"

	"github.com/havenwell/waypoint/internal/metrics"
	"github.com/havenwell/waypoint/internal/models"
)

// Default timing for provider attempts.
const (
	DefaultAttemptTimeout = 4 * time.Second
	DefaultRetryBackoff   = 500 * time.Millisecond
)

// Orchestrator chains the primary and secondary providers: primary,
// primary retry, secondary, secondary retry. Every failure shape
// (timeout, non-2xx, malformed body, empty result) counts the same, and
// no attempt is retried more than once. Exhausting all attempts is a
// valid outcome, not an error; the caller composes a degraded response.
type Orchestrator struct {
	primary        Provider
	secondary      Provider
	log            *slog.Logger
	metrics        *metrics.Metrics
	attemptTimeout time.Duration
	retryBackoff   time.Duration
}

// OrchestratorConfig holds construction parameters for an Orchestrator.
// Either provider may be nil when its credentials are absent; the chain
// simply skips it.
type OrchestratorConfig struct {
	Primary        Provider
	Secondary      Provider
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	AttemptTimeout time.Duration // Defaults to DefaultAttemptTimeout.
	RetryBackoff   time.Duration // Defaults to DefaultRetryBackoff.
}

// NewOrchestrator creates an Orchestrator from the given configuration.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}

	return &Orchestrator{
		primary:        cfg.Primary,
		secondary:      cfg.Secondary,
		log:            cfg.Logger,
		metrics:        cfg.Metrics,
		attemptTimeout: cfg.AttemptTimeout,
		retryBackoff:   cfg.RetryBackoff,
	}
}

// Resolve works through the provider chain and returns the first
// coordinate obtained together with its provenance label. When every
// attempt fails it returns (nil, "none").
func (o *Orchestrator) Resolve(ctx context.Context, code models.NormalizedCode) (*models.Coordinates, string) {
	if o.primary != nil {
		if coords := o.tryProvider(ctx, o.primary, models.GeocoderPrimary, code); coords != nil {
			return coords, models.GeocoderPrimary
		}
	}

	if o.secondary != nil {
		if coords := o.tryProvider(ctx, o.secondary, models.GeocoderSecondary, code); coords != nil {
			return coords, models.GeocoderSecondary
		}
	}

	o.log.WarnContext(ctx, "All geocoding attempts exhausted", "code", code.Normalized)

	return nil, models.GeocoderNone
}

// tryProvider calls one provider with a per-attempt timeout, retrying
// once after a short backoff. A nil return means both attempts failed.
func (o *Orchestrator) tryProvider(
	ctx context.Context,
	provider Provider,
	label string,
	code models.NormalizedCode,
) *models.Coordinates {
	const maxAttempts = 2

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(o.retryBackoff):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
		startTime := time.Now()
		coords, err := provider.Geocode(attemptCtx, code)
		cancel()

		if o.metrics != nil {
			o.metrics.ProviderRequestSeconds.WithLabelValues(label).Observe(time.Since(startTime).Seconds())
		}

		if err != nil {
			if o.metrics != nil {
				o.metrics.ProviderErrors.WithLabelValues(label).Inc()
			}
			o.log.WarnContext(ctx, "Geocoding attempt failed",
				"provider", label, "attempt", attempt, "code", code.Normalized, "error", err)
			continue
		}

		return coords
	}

	return nil
}
