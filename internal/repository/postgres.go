package repository

import (
	"context"
	"fmt"

	"github.com/havenwell/waypoint/internal/models"
)

// ListActiveLocations retrieves directory locations eligible for
// distance matching: active rows that have both coordinates set.
// Phone, website and type may be NULL in the directory and come back
// as empty strings; the matcher substitutes fallback text for them.
func (r *Repository) ListActiveLocations(ctx context.Context) ([]models.LocationRecord, error) {
	var locations []models.LocationRecord
	query := `
		SELECT name, phone, website, provider_type, latitude, longitude
		FROM public.provider_locations
		WHERE
			is_active = true
			AND latitude IS NOT NULL
			AND longitude IS NOT NULL
		ORDER BY name ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var location models.LocationRecord
		var phone, website, providerType *string
		if errScan := rows.Scan(
			&location.Name, &phone, &website, &providerType, &location.Latitude, &location.Longitude,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan active location: %w", errScan)
		}
		if phone != nil {
			location.Phone = *phone
		}
		if website != nil {
			location.Website = *website
		}
		if providerType != nil {
			location.Type = *providerType
		}
		locations = append(locations, location)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Fetched active directory locations", "count", len(locations))

	return locations, nil
}
