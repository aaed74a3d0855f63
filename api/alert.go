package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/guardknight/guardknight-api/emergency"
	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/schema"
)

const (
	streamWriteWait    = 10 * time.Second
	streamPingInterval = 30 * time.Second
)

// abortWithAlertError maps alert lifecycle errors to responses.
func abortWithAlertError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, emergency.ErrInvalidAlertKind):
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidAlertKind, err)
	case errors.Is(err, geo.ErrLocationTimeout):
		abortWithEncoding(c, http.StatusUnprocessableEntity, errorLocationTimeout, err)
	case errors.Is(err, geo.ErrLocationUnavailable):
		abortWithEncoding(c, http.StatusUnprocessableEntity, errorUnknownLocation, err)
	case errors.Is(err, emergency.ErrAlertNotFound):
		abortWithEncoding(c, http.StatusNotFound, errorAlertNotFound, err)
	case errors.Is(err, emergency.ErrInvalidTransition):
		abortWithEncoding(c, http.StatusConflict, errorInvalidTransition, err)
	case errors.Is(err, emergency.ErrOwnerResponder):
		abortWithEncoding(c, http.StatusForbidden, errorOwnerResponder, err)
	case errors.Is(err, emergency.ErrNotNearbyVolunteer):
		abortWithEncoding(c, http.StatusForbidden, errorNotNearbyVolunteer, err)
	case errors.Is(err, emergency.ErrPersistence):
		abortWithEncoding(c, http.StatusInternalServerError, errorAlertPersistence, err)
	default:
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
	}
}

// createAlert raises an alert at the requester's current position
func (s *Server) createAlert(c *gin.Context) {
	requester := c.GetString("requester")

	var params struct {
		Type    schema.AlertKind `json:"type" binding:"required"`
		Message string           `json:"message"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	alert, err := s.alerts.CreateAlert(c.Request.Context(), requester, params.Type, params.Message)
	if err != nil {
		abortWithAlertError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": alert})
}

// getAlert is visible to the owner and the responders only
func (s *Server) getAlert(c *gin.Context) {
	requester := c.GetString("requester")

	alert, err := s.alerts.GetAlert(c.Request.Context(), c.Param("alertID"))
	if err != nil {
		abortWithAlertError(c, err)
		return
	}

	if alert.OwnerID != requester && !isResponder(alert, requester) {
		abortWithEncoding(c, http.StatusForbidden, errorNotAlertOwner)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": alert})
}

func isResponder(alert schema.EmergencyAlert, id string) bool {
	for _, r := range alert.RespondingVolunteerIDs {
		if r == id {
			return true
		}
	}
	return false
}

// updateAlertStatus moves an alert forward. Only the owner and the
// responders may do it.
func (s *Server) updateAlertStatus(c *gin.Context) {
	requester := c.GetString("requester")
	id := c.Param("alertID")

	var params struct {
		Status schema.AlertStatus `json:"status" binding:"required"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	alert, err := s.alerts.GetAlert(c.Request.Context(), id)
	if err != nil {
		abortWithAlertError(c, err)
		return
	}

	if alert.OwnerID != requester && !isResponder(alert, requester) {
		abortWithEncoding(c, http.StatusForbidden, errorNotAlertOwner)
		return
	}

	alert, err = s.alerts.UpdateStatus(c.Request.Context(), id, params.Status)
	if err != nil {
		abortWithAlertError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": alert})
}

func (s *Server) resolveFalseAlarm(c *gin.Context) {
	requester := c.GetString("requester")
	id := c.Param("alertID")

	alert, err := s.alerts.GetAlert(c.Request.Context(), id)
	if err != nil {
		abortWithAlertError(c, err)
		return
	}

	if alert.OwnerID != requester {
		abortWithEncoding(c, http.StatusForbidden, errorNotAlertOwner)
		return
	}

	alert, err = s.alerts.ResolveAsFalseAlarm(c.Request.Context(), id)
	if err != nil {
		abortWithAlertError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": alert})
}

// respondAlert records the requester as a responding volunteer
func (s *Server) respondAlert(c *gin.Context) {
	requester := c.GetString("requester")

	alert, err := s.alerts.Respond(c.Request.Context(), c.Param("alertID"), requester)
	if err != nil {
		abortWithAlertError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": alert})
}

// alertStream pushes the requester's latest alerts over a websocket every
// time they change. Only the newest pending snapshot is kept for a slow
// client.
func (s *Server) alertStream(c *gin.Context) {
	requester := c.GetString("requester")

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("upgrade alert stream")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan []schema.EmergencyAlert, 1)
	sub, err := s.alerts.Subscribe(ctx, requester, func(alerts []schema.EmergencyAlert) {
		for {
			select {
			case snapshots <- alerts:
				return
			default:
			}
			select {
			case <-snapshots:
			default:
			}
		}
	})
	if err != nil {
		log.WithError(err).Error("subscribe alert stream")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, errorSubscriptionFailure.Message),
			time.Now().Add(streamWriteWait))
		return
	}
	defer sub.Cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case alerts := <-snapshots:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(gin.H{"alerts": alerts}); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}
