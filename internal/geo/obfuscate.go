package geo

import (
	"hash/fnv"
	"math"
	"strconv"

	"roamstay/server/internal/models"
)

const (
	minJitterMeters = 50.0
	maxJitterMeters = 150.0

	// metersPerDegreeLat is the approximate north-south length of one
	// degree of latitude. Accurate enough for offsets under 200 m.
	metersPerDegreeLat = 111320.0
)

// Obfuscate returns a display coordinate offset from the listing's true
// position by 50-150 meters. The offset direction and magnitude derive
// from the listing ID and salt, so repeated calls with the same inputs
// always produce the same point while the exact address stays hidden.
// This is best-effort privacy for map display, not a security guarantee.
func Obfuscate(l models.Listing, salt int) (models.Coordinate, bool) {
	pos, ok := l.Coordinate()
	if !ok {
		return models.Coordinate{}, false
	}

	h := fnv.New64a()
	h.Write([]byte(l.ID))
	h.Write([]byte(strconv.Itoa(salt)))
	seed := h.Sum64()

	// Low 32 bits pick the bearing, high 32 bits the distance within
	// the jitter band.
	bearing := 2 * math.Pi * float64(uint32(seed)) / float64(math.MaxUint32)
	frac := float64(uint32(seed>>32)) / float64(math.MaxUint32)
	meters := minJitterMeters + frac*(maxJitterMeters-minJitterMeters)

	dLat := meters * math.Cos(bearing) / metersPerDegreeLat
	dLon := meters * math.Sin(bearing) / (metersPerDegreeLat * math.Cos(degreesToRadians(pos.Latitude)))

	return models.Coordinate{
		Latitude:  pos.Latitude + dLat,
		Longitude: pos.Longitude + dLon,
	}, true
}
