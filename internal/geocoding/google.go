package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/havenwell/waypoint/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is the secondary geocoder, backed by the Google Maps
// Geocoding API. Google returns an address-component object per result,
// which is flattened into the shared Coordinates shape here.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrGoogleEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrGoogleEmptyResponse = errors.New("got empty response from Google Maps API")

// NewGoogleProvider creates a Google geocoding provider around an
// existing Maps API client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode resolves a postal code using a component-filtered geocoding
// request, which keeps ambiguous codes pinned to the right country.
func (gp *GoogleProvider) Geocode(ctx context.Context, code models.NormalizedCode) (*models.Coordinates, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "code", code.Normalized, "country", code.Country)

	req := maps.GeocodingRequest{
		Components: map[maps.Component]string{
			maps.ComponentPostalCode: code.Normalized,
			maps.ComponentCountry:    code.Country,
		},
	}
	results, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode postal code: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrGoogleEmptyResponse
	}

	best := results[0]
	coords := &models.Coordinates{
		Latitude:  best.Geometry.Location.Lat,
		Longitude: best.Geometry.Location.Lng,
		Country:   code.Country,
	}

	for _, component := range best.AddressComponents {
		for _, typ := range component.Types {
			switch typ {
			case "locality", "postal_town":
				coords.City = component.LongName
			case "administrative_area_level_1":
				coords.Region = strings.ToUpper(component.ShortName)
			}
		}
	}

	gp.log.DebugContext(ctx, "Google found result",
		"code", code.Normalized, "lat", coords.Latitude, "lon", coords.Longitude)

	return coords, nil
}
