package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"googlemaps.github.io/maps"

	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/schema"
	"github.com/guardknight/guardknight-api/utils"
)

func newTestGoogleGeocoder(t *testing.T, handler http.HandlerFunc) (*geo.GoogleGeocoder, func()) {
	ts := httptest.NewServer(handler)
	client, err := maps.NewClient(maps.WithAPIKey("test-key"), maps.WithBaseURL(ts.URL))
	if err != nil {
		ts.Close()
		t.Fatalf("init google map client with error: %s", err)
	}
	return geo.NewGoogleGeocoder(client, ""), ts.Close
}

func TestGoogleReverseGeocode(t *testing.T) {
	g, done := newTestGoogleGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.URL.Query().Get("latlng"), "25.033"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"No. 7, Section 5, Xinyi Rd, Taipei","place_id":"abc"}]}`))
	})
	defer done()

	address, err := g.ReverseGeocode(context.Background(), 25.033, 121.5654)
	assert.NoError(t, err)
	assert.Equal(t, "No. 7, Section 5, Xinyi Rd, Taipei", address)
}

func TestGoogleReverseGeocodeNoResult(t *testing.T) {
	g, done := newTestGoogleGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})
	defer done()

	_, err := g.ReverseGeocode(context.Background(), 0, 0)
	assert.Equal(t, geo.ErrNoGeoInfoFound, err)
}

func TestGoogleSearchPlaces(t *testing.T) {
	g, done := newTestGoogleGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/place/textsearch/json", r.URL.Path)
		assert.Equal(t, "first aid", r.URL.Query().Get("query"))
		assert.NotEmpty(t, r.URL.Query().Get("radius"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"name":"First Aid Tent","formatted_address":"North Gate","place_id":"p1","types":["hospital","health"],"geometry":{"location":{"lat":25.04,"lng":121.56}}}]}`))
	})
	defer done()

	places, err := g.SearchPlaces(context.Background(), "first aid", &schema.Viewport{
		MinLatitude:  24.933,
		MinLongitude: 121.4654,
		MaxLatitude:  25.133,
		MaxLongitude: 121.6654,
	})
	assert.NoError(t, err)
	assert.Equal(t, []schema.Place{{ID: "p1", DisplayName: "First Aid Tent, North Gate", Latitude: 25.04, Longitude: 121.56, Category: utils.HospitalPlace}}, places)
}
