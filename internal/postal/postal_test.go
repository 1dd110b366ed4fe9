package postal_test

import (
	"testing"

	"github.com/havenwell/waypoint/internal/models"
	"github.com/havenwell/waypoint/internal/postal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_US(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain zip", "10001", "10001"},
		{"zip+4", "10001-1234", "10001-1234"},
		{"surrounding whitespace", "  90210  ", "90210"},
		{"leading zero", "02134", "02134"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			code, err := postal.Normalize(tc.raw, "")

			require.NoError(t, err)
			assert.Equal(t, tc.want, code.Normalized)
			assert.Equal(t, models.CountryUS, code.Country)
			assert.Equal(t, tc.raw, code.Raw)
		})
	}
}

func TestNormalize_CA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"canonical", "M5V 2T6", "M5V 2T6"},
		{"no separator", "M5V2T6", "M5V 2T6"},
		{"hyphen separator", "M5V-2T6", "M5V 2T6"},
		{"lowercase", "m5v 2t6", "M5V 2T6"},
		{"extra inner whitespace", "K1A   0B1", "K1A 0B1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			code, err := postal.Normalize(tc.raw, "")

			require.NoError(t, err)
			assert.Equal(t, tc.want, code.Normalized)
			assert.Equal(t, models.CountryCA, code.Country)
		})
	}
}

func TestNormalize_InvalidFormat(t *testing.T) {
	t.Parallel()

	invalid := []string{
		"",
		"   ",
		"ABC12345",
		"1234",
		"123456",
		"10001-12",
		"M5V 2T",
		"5MV 2T6",
		"10001; DROP TABLE",
	}

	for _, raw := range invalid {
		t.Run("invalid "+raw, func(t *testing.T) {
			t.Parallel()
			_, err := postal.Normalize(raw, "")

			require.Error(t, err)
			var verr *postal.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, postal.ReasonInvalidFormat, verr.Reason)
		})
	}
}

func TestNormalize_HintNeverOverridesFormat(t *testing.T) {
	t.Parallel()

	// A matched US format stays US no matter the hint.
	code, err := postal.Normalize("10001", "CA")
	require.NoError(t, err)
	assert.Equal(t, models.CountryUS, code.Country)

	// A matched CA format stays CA no matter the hint.
	code, err = postal.Normalize("M5V 2T6", "US")
	require.NoError(t, err)
	assert.Equal(t, models.CountryCA, code.Country)

	// A hint never rescues an invalid code.
	_, err = postal.Normalize("not-a-code", "US")
	require.Error(t, err)
}
