package api

import (
	"github.com/guardknight/guardknight-api/crowd"
	"github.com/guardknight/guardknight-api/emergency"
	"github.com/guardknight/guardknight-api/geo"
)

var (
	errorMessageMap = map[int64]string{
		999:  "internal server error",
		1001: "invalid authorization format",
		1003: "invalid token",

		1006: "invalid value of client version",
		1007: "API for this client version has been discontinued",

		1010: "invalid parameters",
		1011: "cannot parse request",

		1100: geo.ErrLocationUnavailable.Error(),
		1101: geo.ErrLocationTimeout.Error(),

		1200: emergency.ErrInvalidAlertKind.Error(),
		1201: emergency.ErrAlertNotFound.Error(),
		1202: emergency.ErrInvalidTransition.Error(),
		1203: emergency.ErrPersistence.Error(),
		1204: "only the alert owner can do this",
		1205: "alert subscription is unavailable",
		1206: emergency.ErrOwnerResponder.Error(),
		1207: emergency.ErrNotNearbyVolunteer.Error(),

		1300: "crowd monitoring is not enabled",
		1301: crowd.ErrInvalidIssue.Error(),
		1302: crowd.ErrNoIssueReporter.Error(),
	}

	errorInternalServer             = errorJSON(999)
	errorInvalidAuthorizationFormat = errorJSON(1001)
	errorInvalidToken               = errorJSON(1003)
	errorInvalidClientVersion       = errorJSON(1006)
	errorUnsupportedClientVersion   = errorJSON(1007)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)

	errorUnknownLocation = errorJSON(1100)
	errorLocationTimeout = errorJSON(1101)

	errorInvalidAlertKind    = errorJSON(1200)
	errorAlertNotFound       = errorJSON(1201)
	errorInvalidTransition   = errorJSON(1202)
	errorAlertPersistence    = errorJSON(1203)
	errorNotAlertOwner       = errorJSON(1204)
	errorSubscriptionFailure = errorJSON(1205)
	errorOwnerResponder      = errorJSON(1206)
	errorNotNearbyVolunteer  = errorJSON(1207)

	errorCrowdMonitorDisabled = errorJSON(1300)
	errorInvalidCrowdIssue    = errorJSON(1301)
	errorNoIssueReporter      = errorJSON(1302)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}
