package geo_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/schema"
)

func TestDistanceKmSamePoint(t *testing.T) {
	p := schema.LocationSample{Latitude: 25.033, Longitude: 121.5654}
	assert.Equal(t, 0.0, geo.DistanceKm(p, p))
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := schema.LocationSample{Latitude: 25.033, Longitude: 121.5654}
	b := schema.LocationSample{Latitude: 22.6273, Longitude: 120.3014}
	assert.Equal(t, geo.DistanceKm(a, b), geo.DistanceKm(b, a))
	assert.True(t, geo.DistanceKm(a, b) > 0)
}

func TestDistanceKmOneDegreeLatitude(t *testing.T) {
	a := schema.LocationSample{Latitude: 0, Longitude: 0}
	b := schema.LocationSample{Latitude: 1, Longitude: 0}
	assert.InDelta(t, 111.195, geo.DistanceKm(a, b), 0.01)
}

func TestDistanceBetweenTaipeiKaohsiung(t *testing.T) {
	d := geo.DistanceBetween(25.0330, 121.5654, 22.6273, 120.3014)
	assert.InDelta(t, 297, d, 5)
}

func TestDistanceKmTriangleInequality(t *testing.T) {
	points := []schema.LocationSample{
		{Latitude: 25.0330, Longitude: 121.5654},
		{Latitude: 22.6273, Longitude: 120.3014},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: 0, Longitude: 0},
		{Latitude: 90, Longitude: 0},
		{Latitude: 89.9, Longitude: 180},
		{Latitude: -90, Longitude: 0},
		{Latitude: -89.95, Longitude: -45},
		{Latitude: 0, Longitude: 179.9},
		{Latitude: 0, Longitude: -179.9},
		{Latitude: 10, Longitude: 180},
		{Latitude: -10, Longitude: -180},
		{Latitude: 65.5, Longitude: -179.99},
	}

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 30; i++ {
		points = append(points, schema.LocationSample{
			Latitude:  r.Float64()*180 - 90,
			Longitude: r.Float64()*360 - 180,
		})
	}

	for _, a := range points {
		for _, b := range points {
			for _, c := range points {
				ac := geo.DistanceKm(a, c)
				via := geo.DistanceKm(a, b) + geo.DistanceKm(b, c)
				if ac > via+1e-9 {
					t.Fatalf("d(%v,%v)=%f exceeds %f via %v", a, c, ac, via, b)
				}
			}
		}
	}
}
