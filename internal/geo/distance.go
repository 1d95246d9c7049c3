package geo

import (
	"math"

	"roamstay/server/internal/models"
)

const (
	// earthRadiusMiles is the mean Earth radius used by the spherical
	// haversine approximation.
	earthRadiusMiles = 3958.8

	// metersPerMile converts the canonical mile distances to meters for
	// map-facing radii.
	metersPerMile = 1609.34
)

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Distance computes the great-circle distance between two coordinates in
// miles using the haversine formula. It is symmetric, non-negative, and
// zero exactly when both points coincide. Invalid coordinates (NaN or out
// of range) propagate NaN; callers treat NaN as "exclude".
func Distance(a, b models.Coordinate) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	deltaLat := degreesToRadians(b.Latitude - a.Latitude)
	deltaLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// DistanceMeters is Distance converted to meters, used for cluster radii
// which map layers express in meters.
func DistanceMeters(a, b models.Coordinate) float64 {
	return Distance(a, b) * metersPerMile
}
