package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/havenwell/waypoint/internal/models"
	"golang.org/x/time/rate"
)

// MapboxBaseURL -- Mapbox forward-geocoding base URL.
const MapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// MapboxProvider implements geocoding using the Mapbox Geocoding API.
// This is the paid primary provider, so outbound calls run through a
// rate limiter in addition to the caller-side admission control.
type MapboxProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Mapbox API
	token   string        // Access token with geocoding scope
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Outbound rate limiter protecting the paid API
}

// Common errors for the Mapbox provider.
var (
	ErrMapboxEmptyResponse = errors.New("mapbox API returned empty feature set")
	ErrMapboxInvalidCoords = errors.New("mapbox API returned invalid coordinates")
	ErrMapboxUnauthorized  = errors.New("mapbox API unauthorized (invalid access token)")
)

// mapboxResponse is the feature-collection shape returned by the
// forward-geocoding endpoint, reduced to the fields used here.
type mapboxResponse struct {
	Features []mapboxFeature `json:"features"`
}

type mapboxFeature struct {
	Center  []float64       `json:"center"` // [lon, lat]
	Text    string          `json:"text"`
	Context []mapboxContext `json:"context"`
}

type mapboxContext struct {
	ID   string `json:"id"` // e.g. "place.12345", "region.678"
	Text string `json:"text"`
}

// NewMapboxProvider creates a Mapbox provider with a default HTTP client.
func NewMapboxProvider(token string, rateLimit int, log *slog.Logger) *MapboxProvider {
	const timeout = 10

	return &MapboxProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: MapboxBaseURL,
		token:   token,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
}

// NewMapboxProviderWithClient allows injecting a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewMapboxProviderWithClient(
	client HTTPClient,
	token string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *MapboxProvider {
	return &MapboxProvider{
		client:  client,
		baseURL: MapboxBaseURL,
		token:   token,
		log:     log,
		limiter: limiter,
	}
}

// Geocode resolves a postal code into coordinates using the Mapbox
// forward-geocoding endpoint, filtered to postcodes in the code's
// country.
func (mp *MapboxProvider) Geocode(ctx context.Context, code models.NormalizedCode) (*models.Coordinates, error) {
	const coordsListLength = 2

	if err := mp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	mp.log.DebugContext(ctx, "Geocoding using Mapbox", "code", code.Normalized, "country", code.Country)

	reqURL, err := url.Parse(fmt.Sprintf("%s/%s.json", mp.baseURL, url.PathEscape(code.Normalized)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("access_token", mp.token)
	query.Set("country", strings.ToLower(code.Country))
	query.Set("types", "postcode")
	query.Set("limit", "1")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := mp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrMapboxUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		mp.log.ErrorContext(ctx, "Mapbox API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("mapbox API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result mapboxResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode mapbox response: %w", err)
	}

	if len(result.Features) == 0 {
		return nil, ErrMapboxEmptyResponse
	}

	feature := result.Features[0]
	if len(feature.Center) != coordsListLength {
		return nil, ErrMapboxInvalidCoords
	}

	coords := &models.Coordinates{
		Longitude: feature.Center[0],
		Latitude:  feature.Center[1],
		Country:   code.Country,
	}

	// The feature context carries optional place/region entries.
	for _, entry := range feature.Context {
		switch {
		case strings.HasPrefix(entry.ID, "place."):
			coords.City = entry.Text
		case strings.HasPrefix(entry.ID, "region."):
			coords.Region = entry.Text
		}
	}

	mp.log.DebugContext(ctx, "Mapbox found result",
		"code", code.Normalized, "lat", coords.Latitude, "lon", coords.Longitude)

	return coords, nil
}
