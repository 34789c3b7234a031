package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ims/backend/internal/application/trade"
	"github.com/ims/backend/internal/domain/shared"
)

// IdempotencyKeyHeader carries the client-chosen key that makes sale
// submissions safe to retry.
const IdempotencyKeyHeader = "X-Idempotency-Key"

// SaleService is the application surface the sale endpoints need
type SaleService interface {
	Create(ctx context.Context, req trade.CreateSaleRequest) (*trade.SaleResponse, error)
	RecordPayment(ctx context.Context, saleID uuid.UUID, req trade.RecordPaymentRequest) (*trade.SaleResponse, error)
	GetByID(ctx context.Context, saleID uuid.UUID) (*trade.SaleResponse, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*trade.SaleResponse, error)
	List(ctx context.Context, filter trade.SaleListFilter) (*shared.Paginated[trade.SaleResponse], error)
}

// SaleHandler serves the sale endpoints
type SaleHandler struct {
	BaseHandler
	service SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(service SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req trade.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	sale, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// RecordPayment handles POST /sales/:id/payments
func (h *SaleHandler) RecordPayment(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req trade.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.service.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// GetByID handles GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// GetByInvoiceNumber handles GET /sales/invoice/:number
func (h *SaleHandler) GetByInvoiceNumber(c *gin.Context) {
	sale, err := h.service.GetByInvoiceNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var filter trade.SaleListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}
