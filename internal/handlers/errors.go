package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"trip-planner/internal/monitoring"
	"trip-planner/internal/services"

	"github.com/gin-gonic/gin"
)

// errorStatus maps a service error to an HTTP status and a machine readable code
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrMalformedCode):
		return http.StatusBadRequest, "malformed_code"
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrInvalidState):
		return http.StatusBadRequest, "invalid_state"
	case errors.Is(err, services.ErrConflict):
		// 400 with its own code, not 409
		return http.StatusBadRequest, "already_participant"
	case errors.Is(err, services.ErrGenerationExhausted):
		return http.StatusServiceUnavailable, "generation_exhausted"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondWithError writes the error body for err. Server side failures are
// alerted and never echo the underlying error to the client.
func respondWithError(c *gin.Context, err error, extra gin.H) {
	status, code := errorStatus(err)

	body := gin.H{"code": code}
	for k, v := range extra {
		body[k] = v
	}

	if status >= http.StatusInternalServerError {
		monitoring.Alert(c.Request.Method+" "+c.FullPath(), err)
		if code == "generation_exhausted" {
			body["error"] = "Could not generate an invitation, please retry"
		} else {
			body["error"] = "Internal server error"
		}
	} else {
		slog.Debug("request rejected", "path", c.FullPath(), "status", status, "code", code, "err", err)
		body["error"] = err.Error()
	}

	if state := services.InvitationState(err); state != "" {
		body["status"] = state
	}

	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "code": "bad_request"})
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "unauthorized"})
}
