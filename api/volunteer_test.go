package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/schema"
)

func TestNearbyVolunteers(t *testing.T) {
	e := newTestEnv(t, nil)
	defer e.finish()

	e.directory.Upsert(schema.Volunteer{
		ID:           "near",
		Location:     schema.LocationSample{Latitude: 25.0345, Longitude: 121.5650},
		Availability: schema.VolunteerAvailable,
		Skills:       []string{"cpr"},
	})
	e.directory.Upsert(schema.Volunteer{
		ID:           "farther",
		Location:     schema.LocationSample{Latitude: 25.0418, Longitude: 121.5440},
		Availability: schema.VolunteerAvailable,
	})
	e.directory.Upsert(schema.Volunteer{
		ID:           "kaohsiung",
		Location:     schema.LocationSample{Latitude: 22.6273, Longitude: 120.3014},
		Availability: schema.VolunteerAvailable,
	})

	w := e.request("GET", "/api/volunteers/nearby?skills=cpr,%20first%20aid", "user-1", nil, map[string]string{"Geo-Position": taipei101})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Result []schema.Volunteer `json:"result"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if assert.Len(t, resp.Result, 2) {
		assert.Equal(t, "near", resp.Result[0].ID)
		assert.Equal(t, "farther", resp.Result[1].ID)
		assert.True(t, resp.Result[0].DistanceKm < resp.Result[1].DistanceKm)
	}
}

func TestNearbyVolunteersRadius(t *testing.T) {
	e := newTestEnv(t, nil)
	defer e.finish()

	w := e.request("GET", "/api/volunteers/nearby?lat=25&lng=121&radius=500", "user-1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.request("GET", "/api/volunteers/nearby?lat=25&lng=121&radius=1", "user-1", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":[]}`, w.Body.String())
}
