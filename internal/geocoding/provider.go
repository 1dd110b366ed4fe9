package geocoding

import (
	"context"
	"net/http"

	"github.com/havenwell/waypoint/internal/models"
)

// Provider converts a normalized postal code into coordinates. All
// implementations normalize their response shapes into the same
// Coordinates struct, so callers never branch on provider identity.
type Provider interface {
	Geocode(ctx context.Context, code models.NormalizedCode) (*models.Coordinates, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
