package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	logPrefix      = "nominatim"
	defaultURL     = "https://nominatim.openstreetmap.org"
	userAgent      = "guardknight-api"
	defaultTimeout = 5 * time.Second
	searchLimit    = 5
)

var (
	errResponseStatus = fmt.Errorf("response status not ok")
	errNoAddress      = fmt.Errorf("no address in response")
)

type Nominatim interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
	Search(ctx context.Context, query string, viewbox *Viewbox) ([]Result, error)
}

// Viewbox bounds a search to min/max longitude and latitude.
type Viewbox struct {
	Left, Top, Right, Bottom float64
}

type Result struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
}

// Coordinates parses the string encoded lat/lon of a result.
func (r Result) Coordinates() (float64, float64, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

type nominatim struct {
	url    string
	client *http.Client
}

func (n nominatim) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	var r reverseResponse
	if err := n.get(ctx, "/reverse", q, &r); err != nil {
		return "", err
	}

	if r.Error != "" {
		return "", fmt.Errorf("%w: %s", errResponseStatus, r.Error)
	}

	if r.DisplayName == "" {
		return "", errNoAddress
	}

	return r.DisplayName, nil
}

func (n nominatim) Search(ctx context.Context, query string, viewbox *Viewbox) ([]Result, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(searchLimit))
	if viewbox != nil {
		q.Set("viewbox", fmt.Sprintf("%f,%f,%f,%f", viewbox.Left, viewbox.Top, viewbox.Right, viewbox.Bottom))
		q.Set("bounded", "1")
	}

	var results []Result
	if err := n.get(ctx, "/search", q, &results); err != nil {
		return nil, err
	}

	return results, nil
}

func (n nominatim) get(ctx context.Context, path string, q url.Values, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.url+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.client.Do(req)
	if nil != err {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"path":   path,
			"error":  err,
		}).Warn("nominatim request")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", errResponseStatus, resp.StatusCode)
	}

	d, err := ioutil.ReadAll(resp.Body)
	if nil != err {
		return err
	}

	return json.Unmarshal(d, v)
}

// New returns a client against the given base url, or the public
// OpenStreetMap instance when url is empty.
func New(baseURL string, client *http.Client) Nominatim {
	u := defaultURL
	if baseURL != "" {
		u = baseURL
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &nominatim{
		url:    u,
		client: client,
	}
}
