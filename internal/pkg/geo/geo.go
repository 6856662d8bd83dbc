package geo

import "math"

const (
	earthRadiusMeters = 6371000

	// DefaultBranchRadius applies to any branch whose radius is unset.
	DefaultBranchRadius = 100
	// DefaultAssignedBranchRadius applies when an employee checks in at the
	// branch they are assigned to and that branch has no radius.
	DefaultAssignedBranchRadius = 50
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// DistanceMeters returns the great-circle distance between a and b in meters.
func DistanceMeters(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// IsWithinRadius reports whether p lies inside the circle around center.
// The boundary counts as inside.
func IsWithinRadius(p, center Point, radiusMeters float64) bool {
	return DistanceMeters(p, center) <= radiusMeters
}

// EffectiveRadius maps an absent or non-positive radius to fallback so that
// a missing value never disables the geofence.
func EffectiveRadius(radius *int, fallback int) float64 {
	if radius == nil || *radius <= 0 {
		return float64(fallback)
	}
	return float64(*radius)
}

// IsFinite reports whether both coordinates are real numbers.
func IsFinite(lat, long float64) bool {
	return !math.IsNaN(lat) && !math.IsNaN(long) && !math.IsInf(lat, 0) && !math.IsInf(long, 0)
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
