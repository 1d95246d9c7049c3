package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roamstay/server/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		listing  models.Listing
		expected models.PriceSummary
		ok       bool
	}{
		{
			name: "Bed prices with range",
			listing: models.Listing{
				Rooms: []models.Room{
					{Beds: []models.Bed{
						{Label: "Queen", PricePerBed: 50},
						{Label: "Single", PricePerBed: 50},
					}},
					{IsPrivate: true, Beds: []models.Bed{
						{Label: "King", PricePerBed: 75},
					}},
				},
			},
			expected: models.PriceSummary{Min: 50, Max: 75, HasRange: true},
			ok:       true,
		},
		{
			name: "Uniform bed prices",
			listing: models.Listing{
				Rooms: []models.Room{
					{Beds: []models.Bed{
						{Label: "Single", PricePerBed: 60},
						{Label: "Single", PricePerBed: 60},
					}},
				},
			},
			expected: models.PriceSummary{Min: 60, Max: 60, HasRange: false},
			ok:       true,
		},
		{
			name: "No rooms falls back to nightly price",
			listing: models.Listing{
				NightlyPrice: floatPtr(120),
			},
			expected: models.PriceSummary{Min: 120, Max: 120, HasRange: false},
			ok:       true,
		},
		{
			name:    "No price data at all",
			listing: models.Listing{},
			ok:      false,
		},
		{
			name: "Zero nightly price is not a price",
			listing: models.Listing{
				NightlyPrice: floatPtr(0),
			},
			ok: false,
		},
		{
			name: "Bed prices win over nightly price",
			listing: models.Listing{
				NightlyPrice: floatPtr(200),
				Rooms: []models.Room{
					{Beds: []models.Bed{{Label: "Bunk", PricePerBed: 35}}},
				},
			},
			expected: models.PriceSummary{Min: 35, Max: 35, HasRange: false},
			ok:       true,
		},
		{
			name: "Unavailable beds still count for display price",
			listing: models.Listing{
				Rooms: []models.Room{
					{Beds: []models.Bed{
						{Label: "Queen", PricePerBed: 40, IsAvailable: false},
						{Label: "Queen", PricePerBed: 90, IsAvailable: true},
					}},
				},
			},
			expected: models.PriceSummary{Min: 40, Max: 90, HasRange: true},
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, ok := Summarize(tt.listing)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, summary)
			}
		})
	}
}
