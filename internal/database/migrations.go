package database

import "fmt"

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id TEXT PRIMARY KEY,
			host_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			address TEXT,
			city TEXT,
			country TEXT,
			nightly_price REAL,
			latitude REAL,
			longitude REAL,
			max_guests INTEGER DEFAULT 0,
			is_active BOOLEAN DEFAULT 0,
			geocode_attempted BOOLEAN DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create listings table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			listing_id TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			is_private BOOLEAN NOT NULL DEFAULT 0,
			FOREIGN KEY (listing_id) REFERENCES listings(id) ON DELETE CASCADE
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create rooms table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS beds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id INTEGER NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			label TEXT NOT NULL,
			price_per_bed REAL NOT NULL DEFAULT 0,
			is_available BOOLEAN NOT NULL DEFAULT 1,
			FOREIGN KEY (room_id) REFERENCES rooms(id) ON DELETE CASCADE
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create beds table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL,
			guest_id TEXT NOT NULL,
			host_id TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			total_price REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'confirmed',
			created_at TEXT,
			FOREIGN KEY (property_id) REFERENCES listings(id)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create bookings table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS telegram_config (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			is_enabled BOOLEAN NOT NULL DEFAULT 0,
			bot_token TEXT NOT NULL,
			chat_id TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create telegram_config table: %v", err)
	}

	// Create spatial index on coordinates
	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_coordinates
		ON listings(latitude, longitude);
	`)
	if err != nil {
		return err
	}

	// The conflict check in CreateBookingIfAvailable scans by property and
	// date range; keep it indexed.
	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_property_dates
		ON bookings(property_id, status, start_date, end_date);
	`)
	if err != nil {
		return err
	}

	return nil
}
