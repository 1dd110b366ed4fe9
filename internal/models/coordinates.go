package models

// Supported countries. Country is always derived from the postal code
// format, never taken from client input as truth.
const (
	CountryUS = "US"
	CountryCA = "CA"
)

// Coordinates represents a geographical point resolved by a geocoding
// provider. It is immutable once returned by the geocoder.
type Coordinates struct {
	Latitude  float64 `json:"lat"`              // Latitude of the geographical point, in [-90, 90].
	Longitude float64 `json:"lng"`              // Longitude of the geographical point, in [-180, 180].
	City      string  `json:"city,omitempty"`   // City is the locality name, when the provider returns one.
	Region    string  `json:"region,omitempty"` // Region is the state or province, when the provider returns one.
	Country   string  `json:"country"`          // Country is the country code ("US" or "CA").
}

// NormalizedCode is a validated postal code in canonical form.
type NormalizedCode struct {
	Raw        string // Raw is the code exactly as the client sent it.
	Normalized string // Normalized is the canonical form, e.g. "10001", "10001-1234", "M5V 2T6".
	Country    string // Country is derived from whichever format matched.
}

// CacheKey returns the result-cache key for this code.
func (n NormalizedCode) CacheKey() string {
	return n.Country + ":" + n.Normalized
}
