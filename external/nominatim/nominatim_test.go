package nominatim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/external/nominatim"
)

func TestReverse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "25.033", r.URL.Query().Get("lat"))
		assert.Equal(t, "121.5654", r.URL.Query().Get("lon"))
		assert.Equal(t, "18", r.URL.Query().Get("zoom"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"display_name":"Taipei 101, Xinyi District, Taipei"}`))
	}))
	defer ts.Close()

	n := nominatim.New(ts.URL, nil)
	address, err := n.Reverse(context.Background(), 25.033, 121.5654)
	assert.NoError(t, err)
	assert.Equal(t, "Taipei 101, Xinyi District, Taipei", address)
}

func TestReverseErrorPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer ts.Close()

	n := nominatim.New(ts.URL, nil)
	_, err := n.Reverse(context.Background(), 0, 0)
	assert.Error(t, err)
}

func TestReverseBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	n := nominatim.New(ts.URL, nil)
	_, err := n.Reverse(context.Background(), 1, 2)
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "hospital", q.Get("q"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "1", q.Get("bounded"))
		assert.NotEmpty(t, q.Get("viewbox"))
		_, _ = w.Write([]byte(`[{"place_id":1,"display_name":"General Hospital","lat":"25.04","lon":"121.51"}]`))
	}))
	defer ts.Close()

	n := nominatim.New(ts.URL, nil)
	results, err := n.Search(context.Background(), "hospital", &nominatim.Viewbox{Left: 121.4, Top: 25.1, Right: 121.6, Bottom: 24.9})
	assert.NoError(t, err)
	assert.Len(t, results, 1)

	lat, lng, err := results[0].Coordinates()
	assert.NoError(t, err)
	assert.Equal(t, 25.04, lat)
	assert.Equal(t, 121.51, lng)
}

func TestSearchWithoutViewbox(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("viewbox"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	n := nominatim.New(ts.URL, nil)
	results, err := n.Search(context.Background(), "exit", nil)
	assert.NoError(t, err)
	assert.Empty(t, results)
}
