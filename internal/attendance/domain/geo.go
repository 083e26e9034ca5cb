// Package domain holds the pure attendance rules: the geofence distance
// check and the scan window classification.
package domain

import "math"

const earthRadiusMeters = 6371000

// DistanceMeters returns the great-circle distance between two coordinates
// using the haversine formula.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}

// WithinGeofence reports whether the scan position lies within radiusMeters
// of the room anchor, and returns the measured distance.
func WithinGeofence(scanLat, scanLon, roomLat, roomLon, radiusMeters float64) (bool, float64) {
	d := DistanceMeters(scanLat, scanLon, roomLat, roomLon)
	return d <= radiusMeters, d
}
