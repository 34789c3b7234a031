package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending           PurchaseOrderStatus = "pending"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "cancelled"
)

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusPartiallyReceived ||
			target == PurchaseOrderStatusReceived ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusPartiallyReceived ||
			target == PurchaseOrderStatusReceived ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusPending || s == PurchaseOrderStatusPartiallyReceived
}

// IsTerminal returns true for states that accept no further transitions
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	ProductSKU       string          `gorm:"type:varchar(64);not null"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Cumulative quantity received so far
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // OrderedQuantity * UnitCost
	ExpiryDate       *time.Time
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID, productID uuid.UUID, productName, productSKU string, quantity, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Ordered quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		ProductName:      productName,
		ProductSKU:       productSKU,
		OrderedQuantity:  quantity,
		ReceivedQuantity: decimal.Zero,
		UnitCost:         unitCost,
		TotalCost:        quantity.Mul(unitCost),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// RemainingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQuantity() decimal.Decimal {
	remaining := i.OrderedQuantity.Sub(i.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.OrderedQuantity)
}

// setReceivedQuantity moves the cumulative received quantity to newReceived
// and returns the delta that was applied. The cumulative value can never
// decrease and can never exceed the ordered quantity.
func (i *PurchaseOrderItem) setReceivedQuantity(newReceived decimal.Decimal) (decimal.Decimal, error) {
	if newReceived.IsNegative() {
		return decimal.Zero, shared.NewValidationError("Received quantity cannot be negative")
	}
	if newReceived.LessThan(i.ReceivedQuantity) {
		return decimal.Zero, shared.NewValidationError(
			fmt.Sprintf("Received quantity for %s cannot decrease from %s to %s",
				i.ProductName, i.ReceivedQuantity.String(), newReceived.String()))
	}
	if newReceived.GreaterThan(i.OrderedQuantity) {
		return decimal.Zero, shared.NewOverReceiptError(i.ProductName, i.OrderedQuantity, newReceived)
	}

	delta := newReceived.Sub(i.ReceivedQuantity)
	i.ReceivedQuantity = newReceived
	i.UpdatedAt = time.Now()

	return delta, nil
}

// ReceiveLine is one line of a receiving submission. ReceivedQuantity is the
// new cumulative total for the product, not an increment; re-submitting the
// same numbers is a no-op.
type ReceiveLine struct {
	ProductID        uuid.UUID
	ReceivedQuantity decimal.Decimal
	ExpiryDate       *time.Time
}

// ReceiptResult describes what a receiving operation actually applied for one
// line. Delta is zero when the submission repeated an already-recorded total.
type ReceiptResult struct {
	ItemID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Delta       decimal.Decimal
	UnitCost    decimal.Decimal
	ExpiryDate  *time.Time
}

// PurchaseOrder is the aggregate root for a supplier order. Orders are
// created directly in pending status and move through the receiving
// lifecycle; received and cancelled are terminal.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber    string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName   string              `gorm:"type:varchar(200);not null"`
	Items          []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal       decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status         PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	OrderDate      time.Time           `gorm:"type:timestamptz;not null"`
	ExpectedDate   *time.Time
	Notes          string `gorm:"type:text"`
	ReceivedAt     *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in pending status
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		Items:             make([]PurchaseOrderItem, 0),
		Subtotal:          decimal.Zero,
		TaxAmount:         decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TotalAmount:       decimal.Zero,
		Status:            PurchaseOrderStatusPending,
		OrderDate:         time.Now(),
	}, nil
}

// AddItem adds a line item. Only allowed before any receiving has happened
func (o *PurchaseOrder) AddItem(productID uuid.UUID, productName, productSKU string, quantity, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if o.Status != PurchaseOrderStatusPending {
		return nil, shared.NewInvalidStateError("Cannot add items to an order that has started receiving")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewValidationError("Product already exists in order")
		}
	}

	item, err := NewPurchaseOrderItem(o.ID, productID, productName, productSKU, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.Touch()
	o.IncrementVersion()

	return item, nil
}

// SetTaxAndDiscount applies order-level tax and discount and recomputes
// the total. Only allowed before any receiving has happened
func (o *PurchaseOrder) SetTaxAndDiscount(tax, discount decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewInvalidStateError("Cannot change totals on an order that has started receiving")
	}
	if tax.IsNegative() {
		return shared.NewValidationError("Tax cannot be negative")
	}
	if discount.IsNegative() {
		return shared.NewValidationError("Discount cannot be negative")
	}
	if discount.GreaterThan(o.Subtotal.Add(tax)) {
		return shared.NewValidationError("Discount cannot exceed subtotal plus tax")
	}

	o.TaxAmount = tax
	o.DiscountAmount = discount
	o.recalculateTotal()
	o.Touch()
	o.IncrementVersion()

	return nil
}

// SetExpectedDate sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDate(date time.Time) {
	o.ExpectedDate = &date
	o.Touch()
	o.IncrementVersion()
}

// SetNotes sets free-form notes on the order
func (o *PurchaseOrder) SetNotes(notes string) {
	o.Notes = notes
	o.Touch()
	o.IncrementVersion()
}

// Receive processes a receiving submission. Each line carries the new
// cumulative received quantity for its product; the order computes the delta
// against what was already recorded. All lines are validated before any is
// applied, so a single bad line rejects the whole submission.
//
// Returns one ReceiptResult per submitted line; callers apply stock movements
// only for results with a positive Delta.
func (o *PurchaseOrder) Receive(lines []ReceiveLine) ([]ReceiptResult, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewInvalidStateError(
			fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("Receive lines cannot be empty")
	}

	// Validate pass: every line must reference an order item and carry a
	// cumulative quantity within [already received, ordered]
	for _, line := range lines {
		item := o.GetItemByProduct(line.ProductID)
		if item == nil {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code,
				fmt.Sprintf("Product %s not found in order", line.ProductID))
		}
		if line.ReceivedQuantity.IsNegative() {
			return nil, shared.NewValidationError("Received quantity cannot be negative")
		}
		if line.ReceivedQuantity.LessThan(item.ReceivedQuantity) {
			return nil, shared.NewValidationError(
				fmt.Sprintf("Received quantity for %s cannot decrease from %s to %s",
					item.ProductName, item.ReceivedQuantity.String(), line.ReceivedQuantity.String()))
		}
		if line.ReceivedQuantity.GreaterThan(item.OrderedQuantity) {
			return nil, shared.NewOverReceiptError(item.ProductName, item.OrderedQuantity, line.ReceivedQuantity)
		}
	}

	// Apply pass
	results := make([]ReceiptResult, 0, len(lines))
	for _, line := range lines {
		item := o.GetItemByProduct(line.ProductID)

		delta, err := item.setReceivedQuantity(line.ReceivedQuantity)
		if err != nil {
			return nil, err
		}
		if line.ExpiryDate != nil {
			item.ExpiryDate = line.ExpiryDate
		}

		results = append(results, ReceiptResult{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Delta:       delta,
			UnitCost:    item.UnitCost,
			ExpiryDate:  item.ExpiryDate,
		})
	}

	o.refreshStatus()
	o.Touch()
	o.IncrementVersion()

	return results, nil
}

// Cancel cancels the order. Allowed from pending and partially_received;
// stock already received stays on hand and its ledger entries stand.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewInvalidStateError(
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// refreshStatus recomputes the status from the items' received quantities
func (o *PurchaseOrder) refreshStatus() {
	if o.isAllItemsReceived() {
		o.Status = PurchaseOrderStatusReceived
		now := time.Now()
		o.ReceivedAt = &now
		return
	}
	if o.hasReceivedAnyGoods() {
		o.Status = PurchaseOrderStatusPartiallyReceived
		return
	}
	o.Status = PurchaseOrderStatusPending
}

func (o *PurchaseOrder) recalculateTotal() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.TotalCost)
	}
	o.Subtotal = subtotal
	o.TotalAmount = o.Subtotal.Add(o.TaxAmount).Sub(o.DiscountAmount)
	if o.TotalAmount.IsNegative() {
		o.TotalAmount = decimal.Zero
	}
}

func (o *PurchaseOrder) isAllItemsReceived() bool {
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

func (o *PurchaseOrder) hasReceivedAnyGoods() bool {
	for _, item := range o.Items {
		if item.ReceivedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// TotalReceivedQuantity returns the total quantity received across all items
func (o *PurchaseOrder) TotalReceivedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ReceivedQuantity)
	}
	return total
}

// TotalRemainingQuantity returns the total quantity still to be received
func (o *PurchaseOrder) TotalRemainingQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.RemainingQuantity())
	}
	return total
}

// GetItemByProduct returns an item by product ID
func (o *PurchaseOrder) GetItemByProduct(productID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsPending returns true if no goods have been received yet
func (o *PurchaseOrder) IsPending() bool {
	return o.Status == PurchaseOrderStatusPending
}

// IsPartiallyReceived returns true if some but not all goods have arrived
func (o *PurchaseOrder) IsPartiallyReceived() bool {
	return o.Status == PurchaseOrderStatusPartiallyReceived
}

// IsReceived returns true if all goods have been received
func (o *PurchaseOrder) IsReceived() bool {
	return o.Status == PurchaseOrderStatusReceived
}

// IsCancelled returns true if the order was cancelled
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == PurchaseOrderStatusCancelled
}

// IsTerminal returns true if the order is in a terminal state
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// ItemCount returns the number of line items
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}
