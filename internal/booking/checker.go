// Package booking decides whether a candidate date range may be booked
// against a property's existing reservations and prices the stay.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roamstay/server/internal/models"
)

// ErrInvalidRange means the requested end date is not after the start date.
var ErrInvalidRange = errors.New("booking end date must be after start date")

// ConflictError reports an overlap with an existing confirmed booking.
// The conflicting range is kept so callers can show it to the guest.
type ConflictError struct {
	StartDate time.Time
	EndDate   time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("property already booked from %s to %s",
		e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"))
}

// normalizeDay truncates a timestamp to midnight UTC of its calendar day.
func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nightsBetween returns the number of whole nights between two normalized
// days.
func nightsBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// TryBook validates the request against the property's existing bookings
// and, when no confirmed booking overlaps, returns a new confirmed booking
// priced at nights x nightlyPrice. Overlap uses an inclusive boundary
// test: a stay ending on another stay's start date still conflicts.
//
// The check here is advisory; the store-level conditional insert is what
// prevents two concurrent requests from both committing (see
// database.CreateBookingIfAvailable).
func TryBook(req models.BookingRequest, existing []models.Booking, hostID string, nightlyPrice float64) (models.Booking, error) {
	start := normalizeDay(req.StartDate)
	end := normalizeDay(req.EndDate)

	if !start.Before(end) {
		return models.Booking{}, ErrInvalidRange
	}
	nights := nightsBetween(start, end)

	for _, b := range existing {
		if b.Status != models.BookingStatusConfirmed {
			continue
		}
		bStart := normalizeDay(b.StartDate)
		bEnd := normalizeDay(b.EndDate)
		if !bStart.After(end) && !bEnd.Before(start) {
			return models.Booking{}, &ConflictError{StartDate: bStart, EndDate: bEnd}
		}
	}

	return models.Booking{
		ID:         uuid.NewString(),
		PropertyID: req.PropertyID,
		GuestID:    req.GuestID,
		HostID:     hostID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: float64(nights) * nightlyPrice,
		Status:     models.BookingStatusConfirmed,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
