package handlers

import (
	"errors"
	"net/http"

	"github.com/craftora/collab/internal/models"
	"github.com/craftora/collab/pkg/logger"
	"github.com/gin-gonic/gin"
)

// respondError maps the engine's error taxonomy onto distinct HTTP statuses
// and machine-readable codes. Nothing collapses into a generic failure: the
// UI needs to tell "someone else just filled that role" (requirement_full)
// apart from "you already applied" (duplicate_application).
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "code": "validation", "field": validationErr.Field})
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": "forbidden"})
	case errors.Is(err, models.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_state"})
	case errors.Is(err, models.ErrRequirementClosed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "requirement_closed"})
	case errors.Is(err, models.ErrDuplicateApplication):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "duplicate_application"})
	case errors.Is(err, models.ErrRequirementFull):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "requirement_full"})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "conflict"})
	case errors.Is(err, models.ErrContention):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": "contention"})
	default:
		logger.WithError(err).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "internal"})
	}
}
