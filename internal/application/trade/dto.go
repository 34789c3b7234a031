package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SaleLineRequest is one line of a sale submission. UnitPrice is optional;
// when omitted the product's selling price is used.
type SaleLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal  `json:"discount"`
}

// CreateSaleRequest creates a sale and moves stock out for every line
type CreateSaleRequest struct {
	CustomerName   string            `json:"customer_name"`
	CustomerPhone  string            `json:"customer_phone"`
	Items          []SaleLineRequest `json:"items" binding:"required,min=1,dive"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	PaymentMethod  string            `json:"payment_method"`
	PaidAmount     decimal.Decimal   `json:"paid_amount"`
	Notes          string            `json:"notes"`
	IdempotencyKey string            `json:"-"`
}

// RecordPaymentRequest registers a payment against an existing sale
type RecordPaymentRequest struct {
	Method string          `json:"method" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SaleItemResponse is the read model for a sale line
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	NetAmount   decimal.Decimal `json:"net_amount"`
}

// SaleResponse is the read model for a sale
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	InvoiceNumber  string             `json:"invoice_number"`
	CustomerName   string             `json:"customer_name,omitempty"`
	CustomerPhone  string             `json:"customer_phone,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"`
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	Outstanding    decimal.Decimal    `json:"outstanding"`
	SaleDate       time.Time          `json:"sale_date"`
	Notes          string             `json:"notes,omitempty"`
}

// SaleListFilter carries list parameters for sales
type SaleListFilter struct {
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
	Search        string `form:"search"`
	PaymentStatus string `form:"payment_status"`
}

// PurchaseOrderLineRequest is one ordered line of a new purchase order
type PurchaseOrderLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
}

// CreatePurchaseOrderRequest creates a purchase order in pending status
type CreatePurchaseOrderRequest struct {
	SupplierID     uuid.UUID                  `json:"supplier_id" binding:"required"`
	Items          []PurchaseOrderLineRequest `json:"items" binding:"required,min=1,dive"`
	TaxAmount      decimal.Decimal            `json:"tax_amount"`
	DiscountAmount decimal.Decimal            `json:"discount_amount"`
	ExpectedDate   *time.Time                 `json:"expected_date"`
	Notes          string                     `json:"notes"`
}

// ReceiveLineRequest reports the new cumulative received quantity for one
// product on the order
type ReceiveLineRequest struct {
	ProductID        uuid.UUID       `json:"product_id" binding:"required"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	ExpiryDate       *time.Time      `json:"expiry_date"`
}

// ReceiveRequest is a receiving submission against a purchase order
type ReceiveRequest struct {
	Lines []ReceiveLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CancelPurchaseOrderRequest cancels a purchase order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PurchaseOrderItemResponse is the read model for an order line
type PurchaseOrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductSKU       string          `json:"product_sku"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	RemainingQty     decimal.Decimal `json:"remaining_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
}

// PurchaseOrderResponse is the read model for a purchase order
type PurchaseOrderResponse struct {
	ID             uuid.UUID                   `json:"id"`
	OrderNumber    string                      `json:"order_number"`
	SupplierID     uuid.UUID                   `json:"supplier_id"`
	SupplierName   string                      `json:"supplier_name"`
	Items          []PurchaseOrderItemResponse `json:"items"`
	Subtotal       decimal.Decimal             `json:"subtotal"`
	TaxAmount      decimal.Decimal             `json:"tax_amount"`
	DiscountAmount decimal.Decimal             `json:"discount_amount"`
	TotalAmount    decimal.Decimal             `json:"total_amount"`
	Status         string                      `json:"status"`
	OrderDate      time.Time                   `json:"order_date"`
	ExpectedDate   *time.Time                  `json:"expected_date,omitempty"`
	Notes          string                      `json:"notes,omitempty"`
	ReceivedAt     *time.Time                  `json:"received_at,omitempty"`
	CancelledAt    *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason   string                      `json:"cancel_reason,omitempty"`
}

// ReceiptLineResponse reports the delta applied for one received line
type ReceiptLineResponse struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	AppliedDelta     decimal.Decimal `json:"applied_delta"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// ReceiveResponse is the outcome of a receiving submission
type ReceiveResponse struct {
	Order PurchaseOrderResponse `json:"order"`
	Lines []ReceiptLineResponse `json:"lines"`
}

// PurchaseOrderListFilter carries list parameters for purchase orders
type PurchaseOrderListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// ToSaleResponse converts a sale to its read model
func ToSaleResponse(sale *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for i := range sale.Items {
		item := &sale.Items[i]
		items = append(items, SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			TotalPrice:  item.TotalPrice,
			NetAmount:   item.NetAmount(),
		})
	}

	return SaleResponse{
		ID:             sale.ID,
		InvoiceNumber:  sale.InvoiceNumber,
		CustomerName:   sale.CustomerName,
		CustomerPhone:  sale.CustomerPhone,
		Items:          items,
		Subtotal:       sale.Subtotal,
		TaxAmount:      sale.TaxAmount,
		DiscountAmount: sale.DiscountAmount,
		TotalAmount:    sale.TotalAmount,
		PaymentMethod:  string(sale.PaymentMethod),
		PaymentStatus:  string(sale.PaymentStatus),
		PaidAmount:     sale.PaidAmount,
		Outstanding:    sale.OutstandingAmount(),
		SaleDate:       sale.SaleDate,
		Notes:          sale.Notes,
	}
}

// ToSaleResponses converts a slice of sales
func ToSaleResponses(sales []trade.Sale) []SaleResponse {
	responses := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		responses = append(responses, ToSaleResponse(&sales[i]))
	}
	return responses
}

// ToSalePage converts a paginated domain result to the read model
func ToSalePage(page *shared.Paginated[trade.Sale]) *shared.Paginated[SaleResponse] {
	return &shared.Paginated[SaleResponse]{
		Items:      ToSaleResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// ToPurchaseOrderResponse converts a purchase order to its read model
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, PurchaseOrderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			ProductSKU:       item.ProductSKU,
			OrderedQuantity:  item.OrderedQuantity,
			ReceivedQuantity: item.ReceivedQuantity,
			RemainingQty:     item.RemainingQuantity(),
			UnitCost:         item.UnitCost,
			TotalCost:        item.TotalCost,
			ExpiryDate:       item.ExpiryDate,
		})
	}

	return PurchaseOrderResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		SupplierID:     order.SupplierID,
		SupplierName:   order.SupplierName,
		Items:          items,
		Subtotal:       order.Subtotal,
		TaxAmount:      order.TaxAmount,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		Status:         string(order.Status),
		OrderDate:      order.OrderDate,
		ExpectedDate:   order.ExpectedDate,
		Notes:          order.Notes,
		ReceivedAt:     order.ReceivedAt,
		CancelledAt:    order.CancelledAt,
		CancelReason:   order.CancelReason,
	}
}

// ToPurchaseOrderResponses converts a slice of purchase orders
func ToPurchaseOrderResponses(orders []trade.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToPurchaseOrderResponse(&orders[i]))
	}
	return responses
}

// ToPurchaseOrderPage converts a paginated domain result to the read model
func ToPurchaseOrderPage(page *shared.Paginated[trade.PurchaseOrder]) *shared.Paginated[PurchaseOrderResponse] {
	return &shared.Paginated[PurchaseOrderResponse]{
		Items:      ToPurchaseOrderResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
