package geo

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"

	"github.com/guardknight/guardknight-api/schema"
	"github.com/guardknight/guardknight-api/utils"
)

const googleTimeout = 5 * time.Second

var ErrNoGeoInfoFound = fmt.Errorf("no geo information found")

type GoogleGeocoder struct {
	client   *maps.Client
	language string
}

func NewGoogleGeocoder(client *maps.Client, language string) *GoogleGeocoder {
	if language == "" {
		language = "en"
	}
	return &GoogleGeocoder{
		client:   client,
		language: language,
	}
}

func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, googleTimeout)
	defer cancel()

	geos, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{
			Lat: lat,
			Lng: lng,
		},
		Language: g.language,
	})
	if nil != err {
		return "", err
	}

	if len(geos) == 0 {
		return "", ErrNoGeoInfoFound
	}

	return geos[0].FormattedAddress, nil
}

func (g *GoogleGeocoder) SearchPlaces(ctx context.Context, query string, viewport *schema.Viewport) ([]schema.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, googleTimeout)
	defer cancel()

	req := &maps.TextSearchRequest{
		Query:    query,
		Language: g.language,
	}
	if viewport != nil {
		centerLat := (viewport.MinLatitude + viewport.MaxLatitude) / 2
		centerLng := (viewport.MinLongitude + viewport.MaxLongitude) / 2
		req.Location = &maps.LatLng{Lat: centerLat, Lng: centerLng}
		req.Radius = uint(DistanceBetween(centerLat, centerLng, viewport.MaxLatitude, centerLng) * 1000)
	}

	resp, err := g.client.TextSearch(ctx, req)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"query":  query,
			"error":  err,
		}).Warn("google text search")
		return nil, err
	}

	places := make([]schema.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		name := r.Name
		if r.FormattedAddress != "" {
			name = fmt.Sprintf("%s, %s", r.Name, r.FormattedAddress)
		}
		places = append(places, schema.Place{
			ID:          r.PlaceID,
			DisplayName: name,
			Latitude:    r.Geometry.Location.Lat,
			Longitude:   r.Geometry.Location.Lng,
			Category:    utils.ReadPlaceType(r.Types),
		})
	}

	return places, nil
}
