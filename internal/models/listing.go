package models

import "time"

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies inside the usable
// latitude/longitude range. Listings with invalid coordinates are
// excluded from every geo operation instead of producing an error.
func (c Coordinate) Valid() bool {
	if c.Latitude != c.Latitude || c.Longitude != c.Longitude { // NaN
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Bed is a single bookable bed inside a room.
type Bed struct {
	Label       string  `json:"label"`
	PricePerBed float64 `json:"price_per_bed"`
	IsAvailable bool    `json:"is_available"`
}

// Room groups beds; IsPrivate distinguishes private rooms from shared ones.
type Room struct {
	IsPrivate bool  `json:"is_private"`
	Beds      []Bed `json:"beds"`
}

// Listing is a rental property as read from the listing store. The
// discovery core treats it as immutable.
type Listing struct {
	ID           string    `json:"id"`
	HostID       string    `json:"host_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	NightlyPrice *float64  `json:"nightly_price"`
	Rooms        []Room    `json:"rooms"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	MaxGuests    int       `json:"max_guests"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Coordinate returns the listing position and whether it is usable for
// geo operations.
func (l Listing) Coordinate() (Coordinate, bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return Coordinate{}, false
	}
	c := Coordinate{Latitude: *l.Latitude, Longitude: *l.Longitude}
	return c, c.Valid()
}

// Cluster is a non-empty group of listings for map display. The first
// member is the anchor; every member lies within the cluster radius of it.
type Cluster struct {
	Listings []Listing `json:"listings"`
}

// Anchor returns the listing the cluster was seeded from.
func (c Cluster) Anchor() Listing {
	return c.Listings[0]
}

// Size returns the number of listings in the cluster.
func (c Cluster) Size() int {
	return len(c.Listings)
}

// PriceSummary is the display price derived from a listing's price tree.
// Min == Max when the listing has a single effective rate.
type PriceSummary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	HasRange bool    `json:"has_range"`
}
