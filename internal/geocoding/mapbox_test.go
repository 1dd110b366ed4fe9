package geocoding_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/havenwell/waypoint/internal/geocoding"
	"github.com/havenwell/waypoint/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func usCode(code string) models.NormalizedCode {
	return models.NormalizedCode{Raw: code, Normalized: code, Country: models.CountryUS}
}

func TestMapboxProvider_Geocode(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	limiter := rate.NewLimiter(rate.Inf, 1)

	t.Run("successful geocoding with place context", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "GET", req.Method)
				assert.Contains(t, req.URL.String(), "api.mapbox.com")
				assert.Contains(t, req.URL.Path, "10001.json")
				assert.Equal(t, "test-token", req.URL.Query().Get("access_token"))
				assert.Equal(t, "us", req.URL.Query().Get("country"))
				assert.Equal(t, "postcode", req.URL.Query().Get("types"))
				assert.Equal(t, "1", req.URL.Query().Get("limit"))

				responseBody := `{"features":[{"center":[-73.9967,40.7484],"text":"10001",` +
					`"context":[{"id":"place.100","text":"New York"},{"id":"region.200","text":"New York"}]}]}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewMapboxProviderWithClient(mockClient, "test-token", limiter, logger)
		coords, err := provider.Geocode(ctx, usCode("10001"))

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, 40.7484, coords.Latitude, 0.0001)
		assert.InEpsilon(t, -73.9967, coords.Longitude, 0.0001)
		assert.Equal(t, "New York", coords.City)
		assert.Equal(t, "New York", coords.Region)
		assert.Equal(t, models.CountryUS, coords.Country)
	})

	t.Run("empty feature set", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`{"features":[]}`)),
				}, nil
			},
		}

		provider := geocoding.NewMapboxProviderWithClient(mockClient, "test-token", limiter, logger)
		coords, err := provider.Geocode(ctx, usCode("00000"))

		require.Error(t, err)
		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrMapboxEmptyResponse)
	})

	t.Run("unauthorized", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusUnauthorized,
					Body:       io.NopCloser(bytes.NewBufferString(`{"message":"Not Authorized"}`)),
				}, nil
			},
		}

		provider := geocoding.NewMapboxProviderWithClient(mockClient, "bad-token", limiter, logger)
		coords, err := provider.Geocode(ctx, usCode("10001"))

		require.Error(t, err)
		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrMapboxUnauthorized)
	})

	t.Run("server error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusBadGateway,
					Body:       io.NopCloser(bytes.NewBufferString(`upstream error`)),
				}, nil
			},
		}

		provider := geocoding.NewMapboxProviderWithClient(mockClient, "test-token", limiter, logger)
		coords, err := provider.Geocode(ctx, usCode("10001"))

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "mapbox API returned status 502")
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`not json`)),
				}, nil
			},
		}

		provider := geocoding.NewMapboxProviderWithClient(mockClient, "test-token", limiter, logger)
		coords, err := provider.Geocode(ctx, usCode("10001"))

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "failed to decode mapbox response")
	})

	t.Run("invalid center coordinates", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{"features":[{"center":[-73.9967],"text":"10001"}]}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewMapboxProviderWithClient(mockClient, "test-token", limiter, logger)
		coords, err := provider.Geocode(ctx, usCode("10001"))

		require.Error(t, err)
		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrMapboxInvalidCoords)
	})

	t.Run("canadian code sends ca country filter", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "ca", req.URL.Query().Get("country"))
				responseBody := `{"features":[{"center":[-79.3871,43.6426],"text":"M5V 2T6"}]}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewMapboxProviderWithClient(mockClient, "test-token", limiter, logger)
		code := models.NormalizedCode{Raw: "m5v2t6", Normalized: "M5V 2T6", Country: models.CountryCA}
		coords, err := provider.Geocode(ctx, code)

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.Equal(t, models.CountryCA, coords.Country)
	})
}
