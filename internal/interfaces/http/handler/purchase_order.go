package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ims/backend/internal/application/trade"
	"github.com/ims/backend/internal/domain/shared"
)

// PurchaseOrderService is the application surface the purchase order
// endpoints need
type PurchaseOrderService interface {
	Create(ctx context.Context, req trade.CreatePurchaseOrderRequest) (*trade.PurchaseOrderResponse, error)
	Receive(ctx context.Context, orderID uuid.UUID, req trade.ReceiveRequest) (*trade.ReceiveResponse, error)
	Cancel(ctx context.Context, orderID uuid.UUID, req trade.CancelPurchaseOrderRequest) (*trade.PurchaseOrderResponse, error)
	GetByID(ctx context.Context, orderID uuid.UUID) (*trade.PurchaseOrderResponse, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*trade.PurchaseOrderResponse, error)
	List(ctx context.Context, filter trade.PurchaseOrderListFilter) (*shared.Paginated[trade.PurchaseOrderResponse], error)
}

// PurchaseOrderHandler serves the purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	service PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(service PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req trade.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Receive handles POST /purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req trade.ReceiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Receive(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req trade.CancelPurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByID handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByOrderNumber handles GET /purchase-orders/number/:number
func (h *PurchaseOrderHandler) GetByOrderNumber(c *gin.Context) {
	order, err := h.service.GetByOrderNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter trade.PurchaseOrderListFilter
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
