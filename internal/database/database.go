package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"roamstay/server/internal/booking"
	"roamstay/server/internal/models"
)

const dateLayout = "2006-01-02"

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// GetActiveListings returns every active listing with its full room/bed
// tree, ordered by creation time.
func (d *Database) GetActiveListings() ([]models.Listing, error) {
	return d.queryListings("WHERE is_active = 1")
}

// GetListing returns a single listing by ID, or sql.ErrNoRows.
func (d *Database) GetListing(id string) (models.Listing, error) {
	listings, err := d.queryListings("WHERE id = ?", id)
	if err != nil {
		return models.Listing{}, err
	}
	if len(listings) == 0 {
		return models.Listing{}, sql.ErrNoRows
	}
	return listings[0], nil
}

func (d *Database) queryListings(where string, args ...interface{}) ([]models.Listing, error) {
	query := `
        SELECT
            id,
            host_id,
            title,
            description,
            address,
            city,
            country,
            nightly_price,
            latitude,
            longitude,
            max_guests,
            is_active,
            COALESCE(created_at, CURRENT_TIMESTAMP) as created_at
        FROM listings
    ` + where + `
        ORDER BY created_at, id
    `

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	index := make(map[string]int)

	for rows.Next() {
		var l models.Listing
		var description, address, city, country sql.NullString
		var nightlyPrice, latitude, longitude sql.NullFloat64
		var maxGuests sql.NullInt64
		var createdAt sql.NullString

		err := rows.Scan(
			&l.ID,
			&l.HostID,
			&l.Title,
			&description,
			&address,
			&city,
			&country,
			&nightlyPrice,
			&latitude,
			&longitude,
			&maxGuests,
			&l.IsActive,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}

		if description.Valid {
			l.Description = description.String
		}
		if address.Valid {
			l.Address = address.String
		}
		if city.Valid {
			l.City = city.String
		}
		if country.Valid {
			l.Country = country.String
		}
		if nightlyPrice.Valid {
			price := nightlyPrice.Float64
			l.NightlyPrice = &price
		}
		if latitude.Valid {
			lat := latitude.Float64
			l.Latitude = &lat
		}
		if longitude.Valid {
			lon := longitude.Float64
			l.Longitude = &lon
		}
		if maxGuests.Valid {
			l.MaxGuests = int(maxGuests.Int64)
		}
		if createdAt.Valid && createdAt.String != "" {
			if t, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
				l.CreatedAt = t
			}
		}

		index[l.ID] = len(listings)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	if len(listings) == 0 {
		return listings, nil
	}

	if err := d.loadRooms(listings, index); err != nil {
		return nil, err
	}
	return listings, nil
}

// loadRooms attaches the room/bed price tree to the given listings,
// preserving the stored room and bed order.
func (d *Database) loadRooms(listings []models.Listing, index map[string]int) error {
	rows, err := d.db.Query(`
        SELECT r.id, r.listing_id, r.is_private
        FROM rooms r
        ORDER BY r.listing_id, r.position, r.id
    `)
	if err != nil {
		return fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	// room id -> (listing index, room index)
	type roomRef struct {
		listing int
		room    int
	}
	roomIndex := make(map[int64]roomRef)

	for rows.Next() {
		var roomID int64
		var listingID string
		var isPrivate bool
		if err := rows.Scan(&roomID, &listingID, &isPrivate); err != nil {
			return fmt.Errorf("failed to scan room: %w", err)
		}
		li, ok := index[listingID]
		if !ok {
			continue
		}
		roomIndex[roomID] = roomRef{listing: li, room: len(listings[li].Rooms)}
		listings[li].Rooms = append(listings[li].Rooms, models.Room{IsPrivate: isPrivate})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rooms: %w", err)
	}

	bedRows, err := d.db.Query(`
        SELECT b.room_id, b.label, b.price_per_bed, b.is_available
        FROM beds b
        ORDER BY b.room_id, b.position, b.id
    `)
	if err != nil {
		return fmt.Errorf("failed to query beds: %w", err)
	}
	defer bedRows.Close()

	for bedRows.Next() {
		var roomID int64
		var bed models.Bed
		if err := bedRows.Scan(&roomID, &bed.Label, &bed.PricePerBed, &bed.IsAvailable); err != nil {
			return fmt.Errorf("failed to scan bed: %w", err)
		}
		ref, ok := roomIndex[roomID]
		if !ok {
			continue
		}
		rooms := listings[ref.listing].Rooms
		rooms[ref.room].Beds = append(rooms[ref.room].Beds, bed)
	}
	return bedRows.Err()
}

// ListingsNeedingCoordinates returns active listings that have an address
// but no usable coordinates and have not been geocoded yet. Only the
// fields needed for geocoding are populated.
func (d *Database) ListingsNeedingCoordinates(limit int) ([]models.Listing, error) {
	rows, err := d.db.Query(`
        SELECT id, address, city, country
        FROM listings
        WHERE is_active = 1
        AND (latitude IS NULL OR longitude IS NULL)
        AND geocode_attempted = 0
        AND address IS NOT NULL AND address != ''
        ORDER BY created_at, id
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ungeocoded listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		var city, country sql.NullString
		if err := rows.Scan(&l.ID, &l.Address, &city, &country); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		if city.Valid {
			l.City = city.String
		}
		if country.Valid {
			l.Country = country.String
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// UpdateListingCoordinates stores geocoded coordinates for a listing and
// marks it as attempted.
func (d *Database) UpdateListingCoordinates(id string, lat, lon float64) error {
	_, err := d.db.Exec(`
        UPDATE listings
        SET latitude = ?, longitude = ?, geocode_attempted = 1
        WHERE id = ?
    `, lat, lon, id)
	if err != nil {
		return fmt.Errorf("failed to update coordinates: %w", err)
	}
	return nil
}

// MarkGeocodeAttempted records a failed geocoding pass so the listing is
// not retried on every refresh.
func (d *Database) MarkGeocodeAttempted(id string) error {
	_, err := d.db.Exec(`
        UPDATE listings SET geocode_attempted = 1 WHERE id = ?
    `, id)
	if err != nil {
		return fmt.Errorf("failed to mark geocode attempt: %w", err)
	}
	return nil
}

const bookingColumns = `
    id, property_id, guest_id, host_id, start_date, end_date,
    total_price, status, COALESCE(created_at, '') as created_at
`

func scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		var startDate, endDate, createdAt string

		err := rows.Scan(
			&b.ID,
			&b.PropertyID,
			&b.GuestID,
			&b.HostID,
			&startDate,
			&endDate,
			&b.TotalPrice,
			&b.Status,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}

		if t, err := time.Parse(dateLayout, startDate); err == nil {
			b.StartDate = t
		}
		if t, err := time.Parse(dateLayout, endDate); err == nil {
			b.EndDate = t
		}
		if createdAt != "" {
			if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
				b.CreatedAt = t
			}
		}

		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetConfirmedBookings returns the confirmed bookings for a property,
// ordered by start date.
func (d *Database) GetConfirmedBookings(propertyID string) ([]models.Booking, error) {
	rows, err := d.db.Query(`
        SELECT `+bookingColumns+`
        FROM bookings
        WHERE property_id = ? AND status = ?
        ORDER BY start_date
    `, propertyID, models.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// GetGuestBookings returns a guest's trip list, most recent stay first.
func (d *Database) GetGuestBookings(guestID string) ([]models.Booking, error) {
	rows, err := d.db.Query(`
        SELECT `+bookingColumns+`
        FROM bookings
        WHERE guest_id = ?
        ORDER BY start_date DESC
    `, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query guest bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// GetHostBookings returns the reservations across a host's properties,
// most recent stay first.
func (d *Database) GetHostBookings(hostID string) ([]models.Booking, error) {
	rows, err := d.db.Query(`
        SELECT `+bookingColumns+`
        FROM bookings
        WHERE host_id = ?
        ORDER BY start_date DESC
    `, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to query host bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// GetBooking returns a single booking by ID, or sql.ErrNoRows.
func (d *Database) GetBooking(id string) (models.Booking, error) {
	rows, err := d.db.Query(`
        SELECT `+bookingColumns+`
        FROM bookings
        WHERE id = ?
    `, id)
	if err != nil {
		return models.Booking{}, fmt.Errorf("failed to query booking: %w", err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return models.Booking{}, err
	}
	if len(bookings) == 0 {
		return models.Booking{}, sql.ErrNoRows
	}
	return bookings[0], nil
}

// CreateBookingIfAvailable inserts the booking only if no confirmed
// booking for the same property overlaps its date range. The overlap check
// and the insert run inside a single transaction so two concurrent
// requests for the same dates cannot both commit. On conflict it returns a
// *booking.ConflictError carrying the blocking range.
func (d *Database) CreateBookingIfAvailable(b models.Booking) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	start := b.StartDate.Format(dateLayout)
	end := b.EndDate.Format(dateLayout)

	var conflictStart, conflictEnd string
	err = tx.QueryRow(`
        SELECT start_date, end_date
        FROM bookings
        WHERE property_id = ?
        AND status = ?
        AND start_date <= ?
        AND end_date >= ?
        LIMIT 1
    `, b.PropertyID, models.BookingStatusConfirmed, end, start).Scan(&conflictStart, &conflictEnd)
	if err == nil {
		cs, _ := time.Parse(dateLayout, conflictStart)
		ce, _ := time.Parse(dateLayout, conflictEnd)
		return &booking.ConflictError{StartDate: cs, EndDate: ce}
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	_, err = tx.Exec(`
        INSERT INTO bookings
        (id, property_id, guest_id, host_id, start_date, end_date, total_price, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, b.ID, b.PropertyID, b.GuestID, b.HostID, start, end,
		b.TotalPrice, b.Status, b.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// CancelBooking moves a booking to cancelled. An unknown ID is an error.
func (d *Database) CancelBooking(id string) error {
	result, err := d.db.Exec(`
        UPDATE bookings SET status = ? WHERE id = ?
    `, models.BookingStatusCancelled, id)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("booking not found: %s", id)
	}
	return nil
}

// GetTelegramConfig returns the stored notification configuration, or nil
// when none has been saved.
func (d *Database) GetTelegramConfig() (*models.TelegramConfig, error) {
	var config models.TelegramConfig
	err := d.db.QueryRow(`
        SELECT id, is_enabled, bot_token, chat_id
        FROM telegram_config
        ORDER BY id DESC
        LIMIT 1
    `).Scan(&config.ID, &config.IsEnabled, &config.BotToken, &config.ChatID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query telegram config: %w", err)
	}
	return &config, nil
}

// UpdateTelegramConfig replaces the notification configuration.
func (d *Database) UpdateTelegramConfig(req *models.TelegramConfigRequest) error {
	_, err := d.db.Exec(`
        INSERT INTO telegram_config (is_enabled, bot_token, chat_id, updated_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
    `, req.IsEnabled, req.BotToken, req.ChatID)
	if err != nil {
		return fmt.Errorf("failed to update telegram config: %w", err)
	}
	return nil
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

func (d *Database) Close() error {
	return d.db.Close()
}
