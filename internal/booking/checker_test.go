package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamstay/server/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func confirmed(start, end time.Time) models.Booking {
	return models.Booking{
		PropertyID: "prop-1",
		StartDate:  start,
		EndDate:    end,
		Status:     models.BookingStatusConfirmed,
	}
}

func TestTryBook_Accepted(t *testing.T) {
	existing := []models.Booking{
		confirmed(day(2024, 1, 10), day(2024, 1, 15)),
	}

	req := models.BookingRequest{
		PropertyID: "prop-1",
		GuestID:    "guest-1",
		StartDate:  day(2024, 2, 1),
		EndDate:    day(2024, 2, 5),
	}

	b, err := TryBook(req, existing, "host-1", 100)
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "prop-1", b.PropertyID)
	assert.Equal(t, "guest-1", b.GuestID)
	assert.Equal(t, "host-1", b.HostID)
	assert.Equal(t, 4, b.Nights())
	assert.Equal(t, 400.0, b.TotalPrice)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
}

func TestTryBook_ConflictInsideExistingStay(t *testing.T) {
	existing := []models.Booking{
		confirmed(day(2024, 1, 10), day(2024, 1, 15)),
	}

	req := models.BookingRequest{
		PropertyID: "prop-1",
		StartDate:  day(2024, 1, 12),
		EndDate:    day(2024, 1, 14),
	}

	_, err := TryBook(req, existing, "host-1", 100)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, day(2024, 1, 10), conflict.StartDate)
	assert.Equal(t, day(2024, 1, 15), conflict.EndDate)
}

func TestTryBook_BackToBackStaysConflict(t *testing.T) {
	// The overlap test is boundary-inclusive: checking in on another
	// stay's checkout day is rejected.
	existing := []models.Booking{
		confirmed(day(2024, 1, 10), day(2024, 1, 15)),
	}

	req := models.BookingRequest{
		PropertyID: "prop-1",
		StartDate:  day(2024, 1, 15),
		EndDate:    day(2024, 1, 18),
	}

	_, err := TryBook(req, existing, "host-1", 100)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestTryBook_CancelledBookingsIgnored(t *testing.T) {
	cancelled := confirmed(day(2024, 1, 10), day(2024, 1, 15))
	cancelled.Status = models.BookingStatusCancelled

	req := models.BookingRequest{
		PropertyID: "prop-1",
		StartDate:  day(2024, 1, 12),
		EndDate:    day(2024, 1, 14),
	}

	b, err := TryBook(req, []models.Booking{cancelled}, "host-1", 100)
	require.NoError(t, err)
	assert.Equal(t, 200.0, b.TotalPrice)
}

func TestTryBook_InvalidRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"Same day", day(2024, 3, 1), day(2024, 3, 1)},
		{"End before start", day(2024, 3, 5), day(2024, 3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.BookingRequest{
				PropertyID: "prop-1",
				StartDate:  tt.start,
				EndDate:    tt.end,
			}
			_, err := TryBook(req, nil, "host-1", 100)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestTryBook_NormalizesTimesToMidnight(t *testing.T) {
	// Afternoon timestamps on the same calendar days must not change the
	// night count or slip past the range validation.
	req := models.BookingRequest{
		PropertyID: "prop-1",
		StartDate:  time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 5, 4, 9, 0, 0, 0, time.UTC),
	}

	b, err := TryBook(req, nil, "host-1", 100)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 5, 1), b.StartDate)
	assert.Equal(t, day(2024, 5, 4), b.EndDate)
	assert.Equal(t, 3, b.Nights())
	assert.Equal(t, 300.0, b.TotalPrice)
}

func TestTryBook_SameDayDifferentTimesIsInvalid(t *testing.T) {
	req := models.BookingRequest{
		PropertyID: "prop-1",
		StartDate:  time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC),
	}

	_, err := TryBook(req, nil, "host-1", 100)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
