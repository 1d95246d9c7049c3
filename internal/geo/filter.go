package geo

import "roamstay/server/internal/models"

// FilterByRadius returns the listings within radiusMiles of center,
// preserving input order. Listings without a valid coordinate are dropped
// silently. The input slice is never mutated, and growing the radius never
// removes a previously included listing.
func FilterByRadius(listings []models.Listing, center models.Coordinate, radiusMiles float64) []models.Listing {
	var filtered []models.Listing

	for _, l := range listings {
		pos, ok := l.Coordinate()
		if !ok {
			continue
		}
		if Distance(center, pos) <= radiusMiles {
			filtered = append(filtered, l)
		}
	}

	return filtered
}
