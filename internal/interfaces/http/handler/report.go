package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ims/backend/internal/application/report"
)

// ReportService is the application surface the report endpoints need
type ReportService interface {
	LowStock(ctx context.Context) ([]report.LowStockItem, error)
	Valuation(ctx context.Context) (*report.StockValuationReport, error)
	MovementSummary(ctx context.Context, productID uuid.UUID, from, to time.Time) (*report.MovementSummaryReport, error)
}

// ReportHandler serves the read-only reporting endpoints
type ReportHandler struct {
	BaseHandler
	service ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// LowStock handles GET /reports/low-stock
func (h *ReportHandler) LowStock(c *gin.Context) {
	items, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Valuation handles GET /reports/valuation
func (h *ReportHandler) Valuation(c *gin.Context) {
	result, err := h.service.Valuation(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MovementSummary handles GET /reports/products/:id/movements
func (h *ReportHandler) MovementSummary(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	from, ok := h.parseTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.parseTimeQuery(c, "to")
	if !ok {
		return
	}
	if !to.After(from) {
		h.BadRequest(c, "to must be after from")
		return
	}

	result, err := h.service.MovementSummary(c.Request.Context(), productID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ReportHandler) parseTimeQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		h.BadRequest(c, "Missing required query parameter: "+name)
		return time.Time{}, false
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" parameter: must be RFC3339")
		return time.Time{}, false
	}
	return parsed, true
}
