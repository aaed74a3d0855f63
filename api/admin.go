package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// adminRebroadcastAlert is an internal only api to schedule the fan-out of
// an unresolved alert again
func (s *Server) adminRebroadcastAlert(c *gin.Context) {
	alert, err := s.alerts.Rebroadcast(c.Request.Context(), c.Param("alertID"))
	if err != nil {
		abortWithAlertError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": alert})
}
