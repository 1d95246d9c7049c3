package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamstay/server/internal/booking"
	"roamstay/server/internal/models"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	return db
}

func insertListing(t *testing.T, db *Database, id string, nightlyPrice *float64, lat, lon *float64) {
	t.Helper()
	_, err := db.GetDB().Exec(`
		INSERT INTO listings (id, host_id, title, address, city, country, nightly_price, latitude, longitude, is_active)
		VALUES (?, 'host-1', 'Test listing', '123 Main St', 'Houston', 'USA', ?, ?, ?, 1)
	`, id, nightlyPrice, lat, lon)
	require.NoError(t, err)
}

func floatPtr(v float64) *float64 { return &v }

func TestGetActiveListings_LoadsPriceTree(t *testing.T) {
	db := newTestDatabase(t)
	insertListing(t, db, "l1", floatPtr(100), floatPtr(29.76), floatPtr(-95.37))

	res, err := db.GetDB().Exec(`INSERT INTO rooms (listing_id, position, is_private) VALUES ('l1', 0, 0)`)
	require.NoError(t, err)
	roomID, err := res.LastInsertId()
	require.NoError(t, err)

	_, err = db.GetDB().Exec(`
		INSERT INTO beds (room_id, position, label, price_per_bed, is_available)
		VALUES (?, 0, 'Queen', 50, 1), (?, 1, 'Single', 75, 0)
	`, roomID, roomID)
	require.NoError(t, err)

	listings, err := db.GetActiveListings()
	require.NoError(t, err)
	require.Len(t, listings, 1)

	l := listings[0]
	assert.Equal(t, "l1", l.ID)
	require.NotNil(t, l.NightlyPrice)
	assert.Equal(t, 100.0, *l.NightlyPrice)

	require.Len(t, l.Rooms, 1)
	require.Len(t, l.Rooms[0].Beds, 2)
	assert.Equal(t, "Queen", l.Rooms[0].Beds[0].Label)
	assert.Equal(t, 50.0, l.Rooms[0].Beds[0].PricePerBed)
	assert.Equal(t, "Single", l.Rooms[0].Beds[1].Label)
	assert.False(t, l.Rooms[0].Beds[1].IsAvailable)

	pos, ok := l.Coordinate()
	require.True(t, ok)
	assert.Equal(t, 29.76, pos.Latitude)
}

func TestGetActiveListings_ExcludesInactive(t *testing.T) {
	db := newTestDatabase(t)
	insertListing(t, db, "active", floatPtr(100), nil, nil)

	_, err := db.GetDB().Exec(`
		INSERT INTO listings (id, host_id, title, is_active) VALUES ('inactive', 'host-1', 'Hidden', 0)
	`)
	require.NoError(t, err)

	listings, err := db.GetActiveListings()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "active", listings[0].ID)
}

func testBooking(id, propertyID string, start, end time.Time) models.Booking {
	return models.Booking{
		ID:         id,
		PropertyID: propertyID,
		GuestID:    "guest-1",
		HostID:     "host-1",
		StartDate:  start,
		EndDate:    end,
		TotalPrice: 400,
		Status:     models.BookingStatusConfirmed,
		CreatedAt:  time.Now().UTC(),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateBookingIfAvailable(t *testing.T) {
	db := newTestDatabase(t)
	insertListing(t, db, "prop-1", floatPtr(100), nil, nil)

	first := testBooking("b1", "prop-1", day(2024, 1, 10), day(2024, 1, 15))
	require.NoError(t, db.CreateBookingIfAvailable(first))

	// Overlapping range is refused and reports the blocking stay
	overlap := testBooking("b2", "prop-1", day(2024, 1, 12), day(2024, 1, 14))
	err := db.CreateBookingIfAvailable(overlap)
	var conflict *booking.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, day(2024, 1, 10), conflict.StartDate)
	assert.Equal(t, day(2024, 1, 15), conflict.EndDate)

	// A free range on the same property is accepted
	free := testBooking("b3", "prop-1", day(2024, 2, 1), day(2024, 2, 5))
	require.NoError(t, db.CreateBookingIfAvailable(free))

	// The same dates on another property do not conflict
	insertListing(t, db, "prop-2", floatPtr(80), nil, nil)
	other := testBooking("b4", "prop-2", day(2024, 1, 12), day(2024, 1, 14))
	require.NoError(t, db.CreateBookingIfAvailable(other))

	confirmed, err := db.GetConfirmedBookings("prop-1")
	require.NoError(t, err)
	assert.Len(t, confirmed, 2)
}

func TestCreateBookingIfAvailable_BoundaryDatesConflict(t *testing.T) {
	db := newTestDatabase(t)
	insertListing(t, db, "prop-1", floatPtr(100), nil, nil)

	require.NoError(t, db.CreateBookingIfAvailable(
		testBooking("b1", "prop-1", day(2024, 1, 10), day(2024, 1, 15))))

	// Check-in on the existing checkout day is still an overlap
	backToBack := testBooking("b2", "prop-1", day(2024, 1, 15), day(2024, 1, 18))
	err := db.CreateBookingIfAvailable(backToBack)
	var conflict *booking.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestCancelBooking_FreesDates(t *testing.T) {
	db := newTestDatabase(t)
	insertListing(t, db, "prop-1", floatPtr(100), nil, nil)

	require.NoError(t, db.CreateBookingIfAvailable(
		testBooking("b1", "prop-1", day(2024, 1, 10), day(2024, 1, 15))))
	require.NoError(t, db.CancelBooking("b1"))

	// Cancelled bookings no longer block the range
	rebook := testBooking("b2", "prop-1", day(2024, 1, 12), day(2024, 1, 14))
	require.NoError(t, db.CreateBookingIfAvailable(rebook))

	confirmed, err := db.GetConfirmedBookings("prop-1")
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "b2", confirmed[0].ID)
}

func TestGetBooking(t *testing.T) {
	db := newTestDatabase(t)
	insertListing(t, db, "prop-1", floatPtr(100), nil, nil)

	require.NoError(t, db.CreateBookingIfAvailable(
		testBooking("b1", "prop-1", day(2024, 1, 10), day(2024, 1, 15))))

	b, err := db.GetBooking("b1")
	require.NoError(t, err)
	assert.Equal(t, "prop-1", b.PropertyID)
	assert.Equal(t, day(2024, 1, 10), b.StartDate)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)

	_, err = db.GetBooking("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCancelBooking_UnknownID(t *testing.T) {
	db := newTestDatabase(t)
	assert.Error(t, db.CancelBooking("missing"))
}

func TestGetGuestAndHostBookings(t *testing.T) {
	db := newTestDatabase(t)
	insertListing(t, db, "prop-1", floatPtr(100), nil, nil)

	b := testBooking("b1", "prop-1", day(2024, 3, 1), day(2024, 3, 4))
	require.NoError(t, db.CreateBookingIfAvailable(b))

	guest, err := db.GetGuestBookings("guest-1")
	require.NoError(t, err)
	require.Len(t, guest, 1)
	assert.Equal(t, "b1", guest[0].ID)
	assert.Equal(t, day(2024, 3, 1), guest[0].StartDate)
	assert.Equal(t, 3, guest[0].Nights())

	host, err := db.GetHostBookings("host-1")
	require.NoError(t, err)
	assert.Len(t, host, 1)

	strangerBookings, strangerErr := db.GetGuestBookings("stranger")
	assert.Empty(t, mustBookings(t, strangerBookings, strangerErr))
}

func mustBookings(t *testing.T, bookings []models.Booking, err error) []models.Booking {
	t.Helper()
	require.NoError(t, err)
	return bookings
}

func TestListingsNeedingCoordinates(t *testing.T) {
	db := newTestDatabase(t)
	insertListing(t, db, "geocoded", floatPtr(100), floatPtr(29.76), floatPtr(-95.37))
	insertListing(t, db, "pending", floatPtr(100), nil, nil)

	pending, err := db.ListingsNeedingCoordinates(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pending", pending[0].ID)
	assert.Equal(t, "123 Main St", pending[0].Address)

	require.NoError(t, db.UpdateListingCoordinates("pending", 29.80, -95.40))

	pending, err = db.ListingsNeedingCoordinates(10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	listings, err := db.GetActiveListings()
	require.NoError(t, err)
	for _, l := range listings {
		_, ok := l.Coordinate()
		assert.True(t, ok, "listing %s should have coordinates", l.ID)
	}
}

func TestMarkGeocodeAttempted(t *testing.T) {
	db := newTestDatabase(t)
	insertListing(t, db, "bad-address", floatPtr(100), nil, nil)

	require.NoError(t, db.MarkGeocodeAttempted("bad-address"))

	pending, err := db.ListingsNeedingCoordinates(10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTelegramConfigRoundTrip(t *testing.T) {
	db := newTestDatabase(t)

	config, err := db.GetTelegramConfig()
	require.NoError(t, err)
	assert.Nil(t, config)

	require.NoError(t, db.UpdateTelegramConfig(&models.TelegramConfigRequest{
		IsEnabled: true,
		BotToken:  "12345:token",
		ChatID:    "-100200300",
	}))

	config, err = db.GetTelegramConfig()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.True(t, config.IsEnabled)
	assert.Equal(t, "-100200300", config.ChatID)
}
