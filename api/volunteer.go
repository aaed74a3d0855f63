package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxVolunteerRadiusKm = 50

// nearbyVolunteers lists volunteers around a location, nearest first
func (s *Server) nearbyVolunteers(c *gin.Context) {
	location, ok, err := queryLocation(c)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}
	if !ok {
		abortWithEncoding(c, http.StatusBadRequest, errorUnknownLocation)
		return
	}

	radius := s.volunteerRadiusKm
	if r := c.Query("radius"); r != "" {
		radius, err = strconv.ParseFloat(r, 64)
		if err != nil || radius <= 0 || radius > maxVolunteerRadiusKm {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
			return
		}
	}

	var skills []string
	for _, skill := range strings.Split(c.Query("skills"), ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}

	volunteers, err := s.matcher.FindNearby(c.Request.Context(), location, radius, s.directory, skills...)
	if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": volunteers})
}
