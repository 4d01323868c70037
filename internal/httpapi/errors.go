package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/metrics"
)

// writeError maps the domain error taxonomy to a structured {code, error}
// body. Transient failures surface as 503 so clients know a retry is safe.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "error": err.Error()})
	case errors.Is(err, apperr.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"code": "duplicate_request", "error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"code": "invalid_transition", "error": err.Error()})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation", "error": err.Error()})
	case errors.Is(err, apperr.ErrTransient):
		metrics.HandlerErrors.Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": "transient", "error": "backend temporarily unavailable"})
	case apperr.Timeout(err):
		// Raw deadline or cancellation that escaped the store layer unwrapped.
		metrics.HandlerErrors.Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": "transient", "error": "backend temporarily unavailable"})
	default:
		metrics.HandlerErrors.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"code": "internal", "error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": "validation", "error": msg})
}
