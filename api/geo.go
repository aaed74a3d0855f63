package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/schema"
)

var errInvalidGeoPosition = fmt.Errorf("invalid geo-position value")

// parseGeoPosition will parse latitude, longitude and the optional accuracy
// in meters from the geo-position string
func parseGeoPosition(geoPosition string) (schema.LocationSample, error) {
	positions := strings.Split(geoPosition, ";")

	if len(positions) != 2 && len(positions) != 3 {
		return schema.LocationSample{}, errInvalidGeoPosition
	}

	values := make([]float64, len(positions))
	for i, p := range positions {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return schema.LocationSample{}, err
		}
		values[i] = v
	}

	if !validCoordinates(values[0], values[1]) {
		return schema.LocationSample{}, errInvalidGeoPosition
	}

	var accuracy float64
	if len(values) == 3 {
		accuracy = values[2]
	}

	return schema.NewLocationSample(values[0], values[1], accuracy, time.Now()), nil
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// geoPositionMiddleware attaches the Geo-Position header of a request as the
// requester's current fix
func (s *Server) geoPositionMiddleware(c *gin.Context) {
	if gp := c.GetHeader("Geo-Position"); gp != "" {
		if fix, err := parseGeoPosition(gp); err == nil {
			c.Request = c.Request.WithContext(geo.WithFix(c.Request.Context(), fix))
		} else {
			c.Error(err)
		}
	}
	c.Next()
}

// queryLocation reads lat and lng from the query string, falling back to the
// fix from the Geo-Position header.
func queryLocation(c *gin.Context) (schema.LocationSample, bool, error) {
	latString, lngString := c.Query("lat"), c.Query("lng")
	if latString == "" && lngString == "" {
		fix, ok := geo.FixFromContext(c.Request.Context())
		return fix, ok, nil
	}

	lat, err := strconv.ParseFloat(latString, 64)
	if err != nil {
		return schema.LocationSample{}, false, err
	}
	lng, err := strconv.ParseFloat(lngString, 64)
	if err != nil {
		return schema.LocationSample{}, false, err
	}
	if !validCoordinates(lat, lng) {
		return schema.LocationSample{}, false, errInvalidGeoPosition
	}

	return schema.LocationSample{Latitude: lat, Longitude: lng}, true, nil
}

func (s *Server) reverseGeocode(c *gin.Context) {
	location, ok, err := queryLocation(c)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}
	if !ok {
		abortWithEncoding(c, http.StatusBadRequest, errorUnknownLocation)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": s.tracker.ReverseGeocode(c.Request.Context(), location.Latitude, location.Longitude),
	})
}

func (s *Server) searchPlaces(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	location, ok, err := queryLocation(c)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	var near *schema.LocationSample
	if ok {
		near = &location
	}

	c.JSON(http.StatusOK, gin.H{
		"result": s.tracker.SearchPlaces(c.Request.Context(), query, near),
	})
}
