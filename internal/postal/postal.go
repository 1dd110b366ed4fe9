// Package postal validates and canonicalizes user-supplied postal codes.
// It supports exactly two formats: US ZIP codes and Canadian postal
// codes. The package is pure and performs no I/O.
package postal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/havenwell/waypoint/internal/models"
)

// Validation failure reasons.
const (
	ReasonInvalidFormat = "invalid_format"
)

var (
	// usPattern matches 5 digits, optionally followed by a dash and 4 digits.
	usPattern = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	// caPattern matches letter-digit-letter, optional separator, digit-letter-digit.
	caPattern = regexp.MustCompile(`^[A-Z]\d[A-Z][ -]?\d[A-Z]\d$`)
	// spaces collapses any internal whitespace run to a single space.
	spaces = regexp.MustCompile(`\s+`)
)

// ValidationError describes a postal code that matched neither
// supported format.
type ValidationError struct {
	Reason string // Machine-readable reason, e.g. "invalid_format".
	Code   string // The offending input, after trimming.
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid postal code %q: %s", e.Code, e.Reason)
}

// Normalize classifies rawCode as a US ZIP or Canadian postal code and
// returns its canonical form. The country is determined solely by which
// pattern matched; countryHint is advisory and never overrides a match
// nor rescues a failed one.
func Normalize(rawCode, countryHint string) (models.NormalizedCode, error) {
	_ = countryHint // Format wins; the hint carries no authority.

	cleaned := spaces.ReplaceAllString(strings.TrimSpace(rawCode), " ")
	cleaned = strings.ToUpper(cleaned)

	if usPattern.MatchString(cleaned) {
		return models.NormalizedCode{
			Raw:        rawCode,
			Normalized: cleaned,
			Country:    models.CountryUS,
		}, nil
	}

	if caPattern.MatchString(cleaned) {
		// Canonical Canadian form is "A1A 1A1": forward sortation area,
		// single space, local delivery unit.
		compact := strings.NewReplacer(" ", "", "-", "").Replace(cleaned)
		return models.NormalizedCode{
			Raw:        rawCode,
			Normalized: compact[:3] + " " + compact[3:],
			Country:    models.CountryCA,
		}, nil
	}

	return models.NormalizedCode{}, &ValidationError{Reason: ReasonInvalidFormat, Code: cleaned}
}
