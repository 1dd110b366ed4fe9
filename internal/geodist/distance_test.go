package geodist_test

import (
	"testing"

	"github.com/havenwell/waypoint/internal/geodist"
	"github.com/havenwell/waypoint/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBetween_ZeroForSamePoint(t *testing.T) {
	t.Parallel()

	points := []models.Coordinates{
		{Latitude: 0, Longitude: 0},
		{Latitude: 40.7128, Longitude: -74.0060},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 90, Longitude: 0},
	}

	for _, p := range points {
		dist := geodist.Between(p, p)
		assert.InDelta(t, 0, dist.Km, 1e-9)
		assert.InDelta(t, 0, dist.Mi, 1e-9)
	}
}

func TestBetween_Symmetric(t *testing.T) {
	t.Parallel()

	nyc := models.Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	toronto := models.Coordinates{Latitude: 43.6532, Longitude: -79.3832}

	ab := geodist.Between(nyc, toronto)
	ba := geodist.Between(toronto, nyc)

	assert.InEpsilon(t, ab.Km, ba.Km, 1e-9)
	assert.InEpsilon(t, ab.Mi, ba.Mi, 1e-9)
}

func TestBetween_KnownDistance(t *testing.T) {
	t.Parallel()

	// NYC to Toronto is roughly 550 km / 344 mi by great circle.
	nyc := models.Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	toronto := models.Coordinates{Latitude: 43.6532, Longitude: -79.3832}

	dist := geodist.Between(nyc, toronto)

	assert.InDelta(t, 551, dist.Km, 10)
	assert.InDelta(t, 343, dist.Mi, 10)
	assert.InEpsilon(t, dist.Km*0.621371, dist.Mi, 1e-9)
}
