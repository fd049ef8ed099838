package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	core "github.com/mamadbah2/montwater/internal/inventory"
)

// respondError maps domain errors onto HTTP statuses. Unknown errors are logged
// and hidden behind a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var stockErr *core.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"waterType": stockErr.WaterType,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	case core.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case core.IsClientError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
