package geo

import (
	"github.com/golang/geo/s2"

	"github.com/guardknight/guardknight-api/schema"
)

const EarthRadiusKm = 6371.0

// DistanceKm returns the great circle distance between two samples.
func DistanceKm(a, b schema.LocationSample) float64 {
	return DistanceBetween(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// DistanceBetween returns the great circle distance in kilometers. The result
// does not depend on argument order.
func DistanceBetween(lat1, lng1, lat2, lng2 float64) float64 {
	if lat2 < lat1 || (lat2 == lat1 && lng2 < lng1) {
		lat1, lng1, lat2, lng2 = lat2, lng2, lat1, lng1
	}

	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}
