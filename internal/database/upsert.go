package database

import (
	"fmt"

	"gorm.io/gorm"

	"roamstay/server/internal/models"
)

// UpsertListings writes a batch of host-submitted listings inside the
// given transaction. Existing rows are replaced and the room/bed tree is
// rebuilt so the stored order matches the submitted order.
func UpsertListings(tx *gorm.DB, listings []*models.Listing) error {
	for _, l := range listings {
		err := tx.Exec(`
			INSERT INTO listings
			(id, host_id, title, description, address, city, country,
			 nightly_price, latitude, longitude, max_guests, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				host_id = excluded.host_id,
				title = excluded.title,
				description = excluded.description,
				address = excluded.address,
				city = excluded.city,
				country = excluded.country,
				nightly_price = excluded.nightly_price,
				latitude = excluded.latitude,
				longitude = excluded.longitude,
				max_guests = excluded.max_guests,
				is_active = excluded.is_active
		`, l.ID, l.HostID, l.Title, l.Description, l.Address, l.City, l.Country,
			l.NightlyPrice, l.Latitude, l.Longitude, l.MaxGuests, l.IsActive).Error
		if err != nil {
			return fmt.Errorf("failed to upsert listing %s: %w", l.ID, err)
		}

		if err := tx.Exec(`
			DELETE FROM beds WHERE room_id IN
			(SELECT id FROM rooms WHERE listing_id = ?)
		`, l.ID).Error; err != nil {
			return fmt.Errorf("failed to clear beds for %s: %w", l.ID, err)
		}
		if err := tx.Exec(`DELETE FROM rooms WHERE listing_id = ?`, l.ID).Error; err != nil {
			return fmt.Errorf("failed to clear rooms for %s: %w", l.ID, err)
		}

		for pos, room := range l.Rooms {
			var roomID int64
			row := tx.Raw(`
				INSERT INTO rooms (listing_id, position, is_private)
				VALUES (?, ?, ?)
				RETURNING id
			`, l.ID, pos, room.IsPrivate).Row()
			if err := row.Scan(&roomID); err != nil {
				return fmt.Errorf("failed to insert room for %s: %w", l.ID, err)
			}

			for bedPos, bed := range room.Beds {
				err := tx.Exec(`
					INSERT INTO beds (room_id, position, label, price_per_bed, is_available)
					VALUES (?, ?, ?, ?, ?)
				`, roomID, bedPos, bed.Label, bed.PricePerBed, bed.IsAvailable).Error
				if err != nil {
					return fmt.Errorf("failed to insert bed for %s: %w", l.ID, err)
				}
			}
		}
	}

	return nil
}
