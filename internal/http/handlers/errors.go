package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"
	"github.com/IbnuAlii/GuulSideApp/internal/http/middleware"
	"github.com/IbnuAlii/GuulSideApp/internal/logger"

	"github.com/gin-gonic/gin"
)

const MsgBodyTooLarge = "Request entity too large"

// statusFor maps domain error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response for err.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		_ = c.Error(err)
		logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
		body := gin.H{"message": middleware.MsgServerError}
		if h.Dev {
			body["error"] = err.Error()
		}
		c.AbortWithStatusJSON(status, body)
	case http.StatusRequestTimeout:
		c.AbortWithStatusJSON(status, gin.H{"message": middleware.MsgTimeout})
	default:
		c.AbortWithStatusJSON(status, gin.H{"message": domain.Message(err, http.StatusText(status))})
	}
}

// bind decodes the JSON body into dst. Malformed bodies get a 400 with msg,
// oversized ones a 413.
func (h *Handler) bind(c *gin.Context, dst any, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": MsgBodyTooLarge})
			return false
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
		return false
	}
	return true
}

// requireUser aborts with 401 when the auth gate did not run.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": middleware.MsgNoToken})
	}
	return userID, ok
}
