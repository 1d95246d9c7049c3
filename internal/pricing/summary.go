// Package pricing derives display prices from a listing's room/bed price
// tree. The rendering layer decides how a summary is shown ("$X",
// "$min-$max/night", or "call for price" when no summary exists).
package pricing

import "roamstay/server/internal/models"

// Summarize flattens the per-bed prices across all rooms of a listing and
// returns their min/max. Bed availability and room privacy do not affect
// the display price. When the listing has no bed prices, the flat nightly
// price is used if present and positive. The second return value is false
// when no price data exists anywhere.
func Summarize(l models.Listing) (models.PriceSummary, bool) {
	var prices []float64
	for _, room := range l.Rooms {
		for _, bed := range room.Beds {
			if bed.PricePerBed > 0 {
				prices = append(prices, bed.PricePerBed)
			}
		}
	}

	if len(prices) > 0 {
		min, max := prices[0], prices[0]
		for _, p := range prices[1:] {
			if p < min {
				min = p
			}
			if p > max {
				max = p
			}
		}
		return models.PriceSummary{Min: min, Max: max, HasRange: min != max}, true
	}

	if l.NightlyPrice != nil && *l.NightlyPrice > 0 {
		return models.PriceSummary{Min: *l.NightlyPrice, Max: *l.NightlyPrice}, true
	}

	return models.PriceSummary{}, false
}
