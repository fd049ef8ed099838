package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/montwater/internal/domain/models"
	core "github.com/mamadbah2/montwater/internal/inventory"
	service "github.com/mamadbah2/montwater/internal/service/inventory"
)

const maxSeriesDays = 366

// InventoryService is the application surface the HTTP adapter drives.
type InventoryService interface {
	Location() *time.Location
	CreateProduction(ctx context.Context, entry models.ProductionEntry) (models.ProductionEntry, error)
	EditProduction(ctx context.Context, id string, patch models.ProductionPatch) (models.ProductionEntry, error)
	CreateSale(ctx context.Context, entry models.SalesEntry) (models.SalesEntry, error)
	EditSale(ctx context.Context, id string, patch models.SalesPatch) (models.SalesEntry, error)
	ListProduction() []models.ProductionEntry
	ListSales() []models.SalesEntry
	Stock(wt models.WaterType) models.TypeSummary
	TotalStock() int
	Summaries() []models.TypeSummary
	DailySeries(days int) []models.DayActivity
	Export() ([]byte, string, error)
	Import(ctx context.Context, data []byte) (models.Document, error)
}

// InventoryHandler serves production, sales, stock and data transfer routes.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

type productionRequest struct {
	Date      string      `json:"date"`
	Quantity  json.Number `json:"quantity"`
	BatchID   string      `json:"batchId"`
	WaterType string      `json:"waterType"`
}

type productionPatchRequest struct {
	Date      *string      `json:"date"`
	Quantity  *json.Number `json:"quantity"`
	BatchID   *string      `json:"batchId"`
	WaterType *string      `json:"waterType"`
}

type saleRequest struct {
	Date      string      `json:"date"`
	Quantity  json.Number `json:"quantity"`
	WaterType string      `json:"waterType"`
	Customer  string      `json:"customer"`
	Price     *float64    `json:"price"`
}

type salePatchRequest struct {
	Date      *string      `json:"date"`
	Quantity  *json.Number `json:"quantity"`
	WaterType *string      `json:"waterType"`
	Customer  *string      `json:"customer"`
	Price     *float64     `json:"price"`
}

// ListProduction returns the production history, newest first.
func (h *InventoryHandler) ListProduction(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListProduction())
}

// CreateProduction records a production run.
func (h *InventoryHandler) CreateProduction(c *gin.Context) {
	var req productionRequest
	if !h.bind(c, &req) {
		return
	}

	qty, err := core.ParseQuantity(req.Quantity.String())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	date, err := core.ParseDate(req.Date, h.svc.Location())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	entry, err := h.svc.CreateProduction(c.Request.Context(), models.ProductionEntry{
		Date:      date,
		Quantity:  qty,
		BatchID:   req.BatchID,
		WaterType: models.WaterType(req.WaterType),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// EditProduction applies a partial update to a production entry.
func (h *InventoryHandler) EditProduction(c *gin.Context) {
	var req productionPatchRequest
	if !h.bind(c, &req) {
		return
	}

	var patch models.ProductionPatch
	var err error
	if patch.Quantity, err = parseOptionalQuantity(req.Quantity); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if patch.Date, err = parseOptionalDate(req.Date, h.svc.Location()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	patch.BatchID = req.BatchID
	patch.WaterType = optionalWaterType(req.WaterType)

	entry, err := h.svc.EditProduction(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ListSales returns the sales history, newest first.
func (h *InventoryHandler) ListSales(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListSales())
}

// CreateSale records a sale if enough stock is available.
func (h *InventoryHandler) CreateSale(c *gin.Context) {
	var req saleRequest
	if !h.bind(c, &req) {
		return
	}

	qty, err := core.ParseQuantity(req.Quantity.String())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	date, err := core.ParseDate(req.Date, h.svc.Location())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	entry := models.SalesEntry{
		Date:      date,
		Quantity:  qty,
		WaterType: models.WaterType(req.WaterType),
		Customer:  req.Customer,
	}
	if req.Price != nil {
		entry.Price = *req.Price
	}

	created, err := h.svc.CreateSale(c.Request.Context(), entry)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// EditSale applies a partial update to a sale.
func (h *InventoryHandler) EditSale(c *gin.Context) {
	var req salePatchRequest
	if !h.bind(c, &req) {
		return
	}

	var patch models.SalesPatch
	var err error
	if patch.Quantity, err = parseOptionalQuantity(req.Quantity); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if patch.Date, err = parseOptionalDate(req.Date, h.svc.Location()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	patch.WaterType = optionalWaterType(req.WaterType)
	patch.Customer = req.Customer
	patch.Price = req.Price

	entry, err := h.svc.EditSale(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Inventory returns the stock summary of every water type.
func (h *InventoryHandler) Inventory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"types":             h.svc.Summaries(),
		"totalStock":        h.svc.TotalStock(),
		"lowStockThreshold": core.LowStockThreshold,
	})
}

// InventoryByType returns the stock summary of the water type in the path.
func (h *InventoryHandler) InventoryByType(c *gin.Context) {
	raw := c.Param("waterType")
	wt, err := models.ParseWaterType(raw)
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %q", core.ErrUnknownWaterType, raw))
		return
	}
	c.JSON(http.StatusOK, h.svc.Stock(wt))
}

// Series returns the daily activity of the last days, oldest first.
func (h *InventoryHandler) Series(c *gin.Context) {
	days := service.DefaultSeriesDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxSeriesDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("days must be between 0 and %d", maxSeriesDays)})
			return
		}
		days = n
	}
	c.JSON(http.StatusOK, h.svc.DailySeries(days))
}

func (h *InventoryHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func parseOptionalQuantity(raw *json.Number) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	qty, err := core.ParseQuantity(raw.String())
	if err != nil {
		return nil, err
	}
	return &qty, nil
}

func parseOptionalDate(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	date, err := core.ParseDate(*raw, loc)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func optionalWaterType(raw *string) *models.WaterType {
	if raw == nil {
		return nil
	}
	wt := models.WaterType(*raw)
	return &wt
}
