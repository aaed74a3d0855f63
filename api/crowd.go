package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guardknight/guardknight-api/crowd"
	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/schema"
)

const (
	defaultHeatmapRadius = 0.01
	maxHeatmapRadius     = 1.0
	maxHeatmapGrid       = 50
)

func (s *Server) crowdMonitorRequired(c *gin.Context) {
	if s.monitor == nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorCrowdMonitorDisabled)
		return
	}
	c.Next()
}

func (s *Server) crowdSnapshot(c *gin.Context) {
	var snapshot *schema.CrowdSnapshot
	if latest, ok := s.monitor.Latest(); ok {
		snapshot = &latest
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshot":   snapshot,
		"escalation": s.monitor.Escalation(),
	})
}

func (s *Server) crowdHeatmap(c *gin.Context) {
	center, ok, err := queryLocation(c)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}
	if !ok {
		latest, hasLatest := s.monitor.Latest()
		if !hasLatest {
			abortWithEncoding(c, http.StatusBadRequest, errorUnknownLocation)
			return
		}
		center = latest.Location
	}

	radius := defaultHeatmapRadius
	if r := c.Query("radius"); r != "" {
		radius, err = strconv.ParseFloat(r, 64)
		if err != nil || radius <= 0 || radius > maxHeatmapRadius {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
			return
		}
	}

	grid := crowd.DefaultGridSize
	if g := c.Query("grid"); g != "" {
		grid, err = strconv.Atoi(g)
		if err != nil || grid <= 0 || grid > maxHeatmapGrid {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
			return
		}
	}

	points := make([]schema.HeatmapPoint, 0)
	for p := range s.monitor.GenerateHeatmap(c.Request.Context(), center, radius, grid) {
		points = append(points, p)
	}

	c.JSON(http.StatusOK, gin.H{"result": points})
}

// reportCrowdIssue forwards a user reported problem at the given location or
// the requester's current position
func (s *Server) reportCrowdIssue(c *gin.Context) {
	var params struct {
		Type        string   `json:"type"`
		Description string   `json:"description"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	var location schema.LocationSample
	switch {
	case params.Latitude != nil && params.Longitude != nil:
		if !validCoordinates(*params.Latitude, *params.Longitude) {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
			return
		}
		location = schema.LocationSample{Latitude: *params.Latitude, Longitude: *params.Longitude}
	default:
		fix, ok := geo.FixFromContext(c.Request.Context())
		if !ok {
			abortWithEncoding(c, http.StatusBadRequest, errorUnknownLocation)
			return
		}
		location = fix
	}

	if err := s.monitor.ReportIssue(c.Request.Context(), location, params.Type, params.Description); err != nil {
		switch {
		case errors.Is(err, crowd.ErrInvalidIssue):
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidCrowdIssue, err)
		case errors.Is(err, crowd.ErrNoIssueReporter):
			abortWithEncoding(c, http.StatusServiceUnavailable, errorNoIssueReporter, err)
		default:
			abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}
