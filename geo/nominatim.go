package geo

import (
	"context"
	"strconv"

	"github.com/guardknight/guardknight-api/external/nominatim"
	"github.com/guardknight/guardknight-api/schema"
	"github.com/guardknight/guardknight-api/utils"
)

// NominatimGeocoder resolves places against OpenStreetMap data.
type NominatimGeocoder struct {
	client nominatim.Nominatim
}

func NewNominatimGeocoder(client nominatim.Nominatim) *NominatimGeocoder {
	return &NominatimGeocoder{client: client}
}

func (n *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	return n.client.Reverse(ctx, lat, lng)
}

func (n *NominatimGeocoder) SearchPlaces(ctx context.Context, query string, viewport *schema.Viewport) ([]schema.Place, error) {
	var viewbox *nominatim.Viewbox
	if viewport != nil {
		viewbox = &nominatim.Viewbox{
			Left:   viewport.MinLongitude,
			Top:    viewport.MaxLatitude,
			Right:  viewport.MaxLongitude,
			Bottom: viewport.MinLatitude,
		}
	}

	results, err := n.client.Search(ctx, query, viewbox)
	if err != nil {
		return nil, err
	}

	places := make([]schema.Place, 0, len(results))
	for _, r := range results {
		lat, lng, err := r.Coordinates()
		if err != nil {
			continue
		}
		places = append(places, schema.Place{
			ID:          strconv.FormatInt(r.PlaceID, 10),
			DisplayName: r.DisplayName,
			Latitude:    lat,
			Longitude:   lng,
			Category:    utils.ReadPlaceType([]string{r.Type}),
		})
	}

	return places, nil
}
