package models

// Geocoder provenance labels reported in responses and health checks.
const (
	GeocoderPrimary   = "primary"
	GeocoderSecondary = "secondary"
	GeocoderNone      = "none"
)

// ResolvedResponse is the assembled result of one postal-code lookup.
// It is the unit stored in the result cache and returned to callers.
type ResolvedResponse struct {
	Locals        []ProviderResult   `json:"locals"`
	Nationals     []NationalResource `json:"nationals"`
	Location      *Coordinates       `json:"location,omitempty"`
	Country       string             `json:"country"`
	Geocoder      string             `json:"geocoder"` // "primary", "secondary" or "none".
	LatencyMs     int64              `json:"latencyMs"`
	Cached        bool               `json:"cached"`
	LocalCount    int                `json:"localCount"`
	NationalCount int                `json:"nationalCount"`
	// Error is an advisory message set only in degraded mode; the HTTP
	// status is still 200 in that case.
	Error string `json:"error,omitempty"`
}

// Degraded reports whether this response was composed without a
// resolved coordinate.
func (r ResolvedResponse) Degraded() bool {
	return r.Geocoder == GeocoderNone
}
