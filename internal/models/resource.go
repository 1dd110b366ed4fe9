package models

// Resource types carried in responses.
const (
	ResourceTypeLocal    = "local"
	ResourceTypeNational = "national"
)

// LocationRecord is a candidate physical location from the directory
// collaborator. Phone, Website and Type may be empty; Latitude and
// Longitude are always present (the directory only returns rows with
// coordinates).
type LocationRecord struct {
	Name      string
	Phone     string
	Website   string
	Type      string
	Latitude  float64
	Longitude float64
}

// ProviderResult is a directory location ranked by distance from the
// resolved coordinate. It is derived per request and never persisted on
// its own.
type ProviderResult struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Website     string  `json:"website"`
	Phone       string  `json:"phone"`
	DistanceKm  float64 `json:"distanceKm"`
	DistanceMi  float64 `json:"distanceMi"`
	Type        string  `json:"type"` // Always "local".
}

// NationalResource is a hotline-style resource from the compiled-in
// catalog. The catalog never expires and is never mutated at runtime.
type NationalResource struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Phone       string `json:"phone"`
	Type        string `json:"type"` // Always "national".
}
