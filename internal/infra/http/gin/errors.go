package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staynest/internal/domain/shared/fault"
	"staynest/internal/infra/obs"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal error and keeps its message out of the
// response body. Every error payload carries the request id so support can
// find the matching log line.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, fault.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, fault.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, fault.ErrUnavailable):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, fault.ErrInvalidStateTransition):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, fault.ErrConcurrencyConflict):
		status, message = http.StatusConflict, "conflicting update, retry the request"
	}
	body := gin.H{"error": message}
	if id := obs.RequestIDFromContext(c.Request.Context()); id != "" {
		body["request_id"] = id
	}
	c.JSON(status, body)
}

// userID is the caller identity. Authentication lives at the edge proxy; the
// service trusts the forwarded header.
func userID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-User-ID")
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
		return "", false
	}
	return id, true
}
