package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ims/backend/internal/application/partner"
	"github.com/ims/backend/internal/domain/shared"
)

// SupplierService is the application surface the supplier endpoints need
type SupplierService interface {
	Create(ctx context.Context, req partner.CreateSupplierRequest) (*partner.SupplierResponse, error)
	Update(ctx context.Context, supplierID uuid.UUID, req partner.UpdateSupplierRequest) (*partner.SupplierResponse, error)
	Activate(ctx context.Context, supplierID uuid.UUID) error
	Deactivate(ctx context.Context, supplierID uuid.UUID) error
	GetByID(ctx context.Context, supplierID uuid.UUID) (*partner.SupplierResponse, error)
	GetByCode(ctx context.Context, code string) (*partner.SupplierResponse, error)
	List(ctx context.Context, filter partner.SupplierListFilter) (*shared.Paginated[partner.SupplierResponse], error)
}

// SupplierHandler serves the supplier endpoints
type SupplierHandler struct {
	BaseHandler
	service SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(service SupplierService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

// Create handles POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req partner.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplier, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, supplier)
}

// Update handles PUT /suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req partner.UpdateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplier, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Activate handles POST /suppliers/:id/activate
func (h *SupplierHandler) Activate(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate handles POST /suppliers/:id/deactivate
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID handles GET /suppliers/:id
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	supplier, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// GetByCode handles GET /suppliers/code/:code
func (h *SupplierHandler) GetByCode(c *gin.Context) {
	supplier, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	var filter partner.SupplierListFilter
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
