package volunteer_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/mocks"
	"github.com/guardknight/guardknight-api/schema"
	"github.com/guardknight/guardknight-api/volunteer"
)

var center = schema.LocationSample{Latitude: 25.0330, Longitude: 121.5654}

// offset moves north by km kilometers
func offset(km float64) schema.LocationSample {
	return schema.LocationSample{Latitude: center.Latitude + km/111.195, Longitude: center.Longitude}
}

func ids(volunteers []schema.Volunteer) []string {
	result := make([]string, len(volunteers))
	for i, v := range volunteers {
		result[i] = v.ID
	}
	return result
}

func TestFindNearbyRadiusAndOrder(t *testing.T) {
	directory := volunteer.NewIndexedDirectory(
		schema.Volunteer{ID: "far", Location: offset(8), Rating: 5},
		schema.Volunteer{ID: "near", Location: offset(1), Rating: 3},
		schema.Volunteer{ID: "mid", Location: offset(3), Rating: 4, DistanceKm: 99},
		schema.Volunteer{ID: "edge", Location: offset(4.9), Rating: 1},
	)

	result, err := volunteer.NewMatcher().FindNearby(context.Background(), center, 5, directory)
	assert.NoError(t, err)
	assert.Equal(t, []string{"near", "mid", "edge"}, ids(result))

	for _, v := range result {
		assert.True(t, v.DistanceKm <= 5)
		assert.InDelta(t, geo.DistanceKm(center, v.Location), v.DistanceKm, 1e-12)
	}
	assert.InDelta(t, 3, result[1].DistanceKm, 0.01, "stored distance must be recomputed")
}

func TestFindNearbyTieBreakers(t *testing.T) {
	same := offset(2)
	directory := volunteer.NewIndexedDirectory(
		schema.Volunteer{ID: "low-rating", Location: same, Rating: 3, Skills: []string{"CPR", "first aid"}},
		schema.Volunteer{ID: "no-skill", Location: same, Rating: 4.5},
		schema.Volunteer{ID: "skilled", Location: same, Rating: 4.5, Skills: []string{"cpr", "First Aid"}},
	)

	result, err := volunteer.NewMatcher().FindNearby(context.Background(), center, 5, directory, "First Aid", "CPR")
	assert.NoError(t, err)
	assert.Equal(t, []string{"skilled", "no-skill", "low-rating"}, ids(result))
}

func TestFindNearbyEmpty(t *testing.T) {
	m := volunteer.NewMatcher()
	directory := volunteer.NewIndexedDirectory(schema.Volunteer{ID: "a", Location: offset(1)})

	result, err := m.FindNearby(context.Background(), center, 0, directory)
	assert.NoError(t, err)
	assert.Empty(t, result)

	result, err = m.FindNearby(context.Background(), center, -3, directory)
	assert.NoError(t, err)
	assert.Empty(t, result)

	result, err = m.FindNearby(context.Background(), center, 5, volunteer.NewIndexedDirectory())
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestFindNearbyFreshSlice(t *testing.T) {
	directory := volunteer.NewIndexedDirectory(schema.Volunteer{ID: "a", Location: offset(1), Skills: []string{"cpr"}})
	m := volunteer.NewMatcher()

	first, _ := m.FindNearby(context.Background(), center, 5, directory)
	first[0].Skills[0] = "changed"
	first[0].ID = "changed"

	second, _ := m.FindNearby(context.Background(), center, 5, directory)
	assert.Equal(t, "a", second[0].ID)
	assert.Equal(t, []string{"cpr"}, second[0].Skills)
}

func TestFindNearbyDirectoryFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	d := mocks.NewMockVolunteerDirectory(ctl)
	d.EXPECT().VolunteersWithin(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("connection refused")).Times(1)

	_, err := volunteer.NewMatcher().FindNearby(context.Background(), center, 5, d)
	assert.EqualError(t, err, "connection refused")
}

func TestFindNearbyIgnoresDirectoryOverreach(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	d := mocks.NewMockVolunteerDirectory(ctl)
	d.EXPECT().VolunteersWithin(gomock.Any(), gomock.Any()).Return([]schema.Volunteer{
		{ID: "inside", Location: offset(2)},
		{ID: "outside", Location: offset(20)},
	}, nil).Times(1)

	result, err := volunteer.NewMatcher().FindNearby(context.Background(), center, 5, d)
	assert.NoError(t, err)
	assert.Equal(t, []string{"inside"}, ids(result))
}

func TestBoundingBoxAroundContainsCircle(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	centers := []schema.LocationSample{
		center,
		{Latitude: 0, Longitude: 0},
		{Latitude: 70, Longitude: 179.99},
		{Latitude: -89.99, Longitude: 10},
	}

	for _, c := range centers {
		box := volunteer.BoundingBoxAround(c, 5)
		for i := 0; i < 2000; i++ {
			p := schema.LocationSample{
				Latitude:  c.Latitude + (r.Float64()*2-1)*0.2,
				Longitude: c.Longitude + (r.Float64()*2-1)*2,
			}
			if p.Latitude > 90 || p.Latitude < -90 || p.Longitude > 180 || p.Longitude < -180 {
				continue
			}
			if geo.DistanceKm(c, p) <= 5 {
				assert.True(t, box.Contains(p.Latitude, p.Longitude), "point %v within 5km of %v outside box", p, c)
			}
		}
	}
}
