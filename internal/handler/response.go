package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/sirupsen/logrus"

	"chargenow/internal/domain"
	"chargenow/internal/middleware"
	"chargenow/internal/service"
)

// Envelope wraps every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// respondJSON sends a successful response.
func respondJSON(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}

// respondBadRequest sends a 400 for malformed input caught by the handler.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: message})
}

// respondError sends an error response with the appropriate HTTP status
// code. Unclassified errors are logged and reported without leaking detail.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	message := err.Error()

	if code == http.StatusInternalServerError {
		message = "internal server error"
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.RequestID(c),
			"path":       c.FullPath(),
		}).Error("unhandled error")
		if txn := nrgin.Transaction(c); txn != nil {
			txn.NoticeError(err)
		}
	}

	c.JSON(code, Envelope{Success: false, Message: message})
}

// mapErrorToHTTPStatus maps service error categories to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// principal returns the authenticated caller or aborts with 401.
func principal(c *gin.Context) (domain.Principal, bool) {
	p := middleware.CurrentPrincipal(c)
	if p == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{Success: false, Message: "authentication required"})
		return nil, false
	}
	return p, true
}

// pathID parses a positive integer path parameter or responds 400.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
