// Package geodist computes great-circle distances between coordinates.
package geodist

import (
	"github.com/havenwell/waypoint/internal/models"
	"github.com/umahmood/haversine"
)

// milesPerKm converts kilometres to statute miles. Deriving miles from
// the kilometre figure keeps the two units consistent with each other.
const milesPerKm = 0.621371

// Distance holds one great-circle distance in both units.
type Distance struct {
	Km float64
	Mi float64
}

// Between returns the haversine distance between two coordinates.
// It is symmetric and zero for identical points.
func Between(a, b models.Coordinates) Distance {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Latitude, Lon: a.Longitude},
		haversine.Coord{Lat: b.Latitude, Lon: b.Longitude},
	)

	return Distance{Km: km, Mi: km * milesPerKm}
}
