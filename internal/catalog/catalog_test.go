package catalog_test

import (
	"testing"

	"github.com/havenwell/waypoint/internal/catalog"
	"github.com/havenwell/waypoint/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_AlwaysNonEmpty(t *testing.T) {
	t.Parallel()

	for _, country := range []string{models.CountryUS, models.CountryCA, "??"} {
		resources := catalog.For(country)
		require.NotEmpty(t, resources, "catalog for %q must never be empty", country)

		for _, res := range resources {
			assert.Equal(t, models.ResourceTypeNational, res.Type)
			assert.NotEmpty(t, res.Name)
			assert.NotEmpty(t, res.Phone)
			assert.NotEmpty(t, res.Website)
		}
	}
}

func TestFor_CountryListsAreDistinct(t *testing.T) {
	t.Parallel()

	usNames := make(map[string]bool)
	for _, res := range catalog.For(models.CountryUS) {
		usNames[res.Name] = true
	}

	for _, res := range catalog.For(models.CountryCA) {
		assert.False(t, usNames[res.Name], "%q appears in both catalogs", res.Name)
	}
}

func TestFor_ReturnsACopy(t *testing.T) {
	t.Parallel()

	first := catalog.For(models.CountryUS)
	first[0].Name = "mutated"

	second := catalog.For(models.CountryUS)
	assert.NotEqual(t, "mutated", second[0].Name, "catalog must not be mutable through returned slices")
}
