package models

import "time"

// Booking statuses. A booking is immutable once confirmed except for the
// transition to cancelled.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// BookingRequest is a guest's attempt to reserve a property for a
// calendar date range. StartDate must be strictly before EndDate.
type BookingRequest struct {
	PropertyID string    `json:"property_id" binding:"required"`
	GuestID    string    `json:"guest_id"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
}

// Booking is a confirmed or cancelled reservation.
type Booking struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	GuestID    string    `json:"guest_id"`
	HostID     string    `json:"host_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Nights returns the stay length in whole nights.
func (b Booking) Nights() int {
	return int(b.EndDate.Sub(b.StartDate).Hours() / 24)
}
