package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/montwater/internal/domain/models"
	core "github.com/mamadbah2/montwater/internal/inventory"
)

// Catalog lists the water types with their pack sizes.
func Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"types":             models.Catalog(),
		"lowStockThreshold": core.LowStockThreshold,
	})
}

// EditSchema returns the editable fields of a production or sales entry.
func EditSchema(c *gin.Context) {
	switch c.Param("kind") {
	case "production":
		c.JSON(http.StatusOK, models.ProductionEditSchema())
	case "sales":
		c.JSON(http.StatusOK, models.SalesEditSchema())
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown schema kind"})
	}
}
