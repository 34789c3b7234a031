package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/domain/shared"
)

// StockService is the application surface the stock endpoints need
type StockService interface {
	Adjust(ctx context.Context, req inventory.AdjustStockRequest) (*inventory.AdjustmentResponse, error)
	ListEntries(ctx context.Context, productID uuid.UUID, filter inventory.EntryListFilter) (*shared.Paginated[inventory.StockEntryResponse], error)
	RecentEntries(ctx context.Context, productID uuid.UUID, limit int) ([]inventory.StockEntryResponse, error)
	EntriesByReference(ctx context.Context, referenceType, referenceID string) ([]inventory.StockEntryResponse, error)
	Reconcile(ctx context.Context, productID uuid.UUID) (*inventory.ReconciliationResponse, error)
}

// StockHandler serves the stock ledger and adjustment endpoints
type StockHandler struct {
	BaseHandler
	service StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(service StockService) *StockHandler {
	return &StockHandler{service: service}
}

// Adjust handles POST /stock/adjustments
func (h *StockHandler) Adjust(c *gin.Context) {
	var req inventory.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Adjust(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListEntries handles GET /stock/products/:id/entries
func (h *StockHandler) ListEntries(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var filter inventory.EntryListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.service.ListEntries(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// RecentEntries handles GET /stock/products/:id/entries/recent
func (h *StockHandler) RecentEntries(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "Invalid limit parameter: must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.service.RecentEntries(c.Request.Context(), productID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// EntriesByReference handles GET /stock/entries/by-reference
func (h *StockHandler) EntriesByReference(c *gin.Context) {
	referenceType := c.Query("reference_type")
	referenceID := c.Query("reference_id")
	if referenceType == "" || referenceID == "" {
		h.BadRequest(c, "Both reference_type and reference_id query parameters are required")
		return
	}

	entries, err := h.service.EntriesByReference(c.Request.Context(), referenceType, referenceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// Reconcile handles GET /stock/products/:id/reconciliation
func (h *StockHandler) Reconcile(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Reconcile(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
