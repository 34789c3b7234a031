package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents how much of a sale has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentMethod represents how a sale is paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCredit   PaymentMethod = "credit"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCredit:
		return true
	}
	return false
}

// SaleItem represents a line item in a sale
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductSKU  string          `gorm:"type:varchar(64);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Absolute line discount
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Quantity * UnitPrice
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSaleItem creates a new sale line item
func NewSaleItem(saleID, productID uuid.UUID, productName, productSKU string, quantity, unitPrice, discount decimal.Decimal) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Sale quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewValidationError("Discount cannot be negative")
	}

	totalPrice := quantity.Mul(unitPrice)
	if discount.GreaterThan(totalPrice) {
		return nil, shared.NewValidationError("Line discount cannot exceed line total")
	}

	return &SaleItem{
		ID:          uuid.New(),
		SaleID:      saleID,
		ProductID:   productID,
		ProductName: productName,
		ProductSKU:  productSKU,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Discount:    discount,
		TotalPrice:  totalPrice,
		CreatedAt:   time.Now(),
	}, nil
}

// NetAmount returns the line total after its discount
func (i *SaleItem) NetAmount() decimal.Decimal {
	return i.TotalPrice.Sub(i.Discount)
}

// Sale is the aggregate root for a completed sale transaction. Once
// persisted, a sale is immutable except for its payment fields; corrections
// are handled with returns, never by editing the sale.
type Sale struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName   string          `gorm:"type:varchar(200)"`
	CustomerPhone  string          `gorm:"type:varchar(50)"`
	Items          []SaleItem      `gorm:"foreignKey:SaleID;references:ID"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Sum of line net amounts
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Sale-level discount
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Subtotal + Tax - Discount
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null;default:'cash'"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SaleDate       time.Time       `gorm:"type:timestamptz;not null"`
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new sale with no items yet
func NewSale(invoiceNumber, customerName, customerPhone string) (*Sale, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("Invoice number cannot be empty")
	}

	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerName:      customerName,
		CustomerPhone:     customerPhone,
		Items:             make([]SaleItem, 0),
		Subtotal:          decimal.Zero,
		TaxAmount:         decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TotalAmount:       decimal.Zero,
		PaymentMethod:     PaymentMethodCash,
		PaymentStatus:     PaymentStatusUnpaid,
		PaidAmount:        decimal.Zero,
		SaleDate:          time.Now(),
	}, nil
}

// AddItem adds a line item and recomputes the totals
func (s *Sale) AddItem(productID uuid.UUID, productName, productSKU string, quantity, unitPrice, discount decimal.Decimal) (*SaleItem, error) {
	item, err := NewSaleItem(s.ID, productID, productName, productSKU, quantity, unitPrice, discount)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.recalculateTotals()
	s.Touch()

	return item, nil
}

// SetTaxAndDiscount applies sale-level tax and discount and recomputes the total
func (s *Sale) SetTaxAndDiscount(tax, discount decimal.Decimal) error {
	if tax.IsNegative() {
		return shared.NewValidationError("Tax cannot be negative")
	}
	if discount.IsNegative() {
		return shared.NewValidationError("Discount cannot be negative")
	}
	if discount.GreaterThan(s.Subtotal.Add(tax)) {
		return shared.NewValidationError("Discount cannot exceed subtotal plus tax")
	}

	s.TaxAmount = tax
	s.DiscountAmount = discount
	s.recalculateTotals()
	s.Touch()

	return nil
}

// RecordPayment registers a payment against the sale and re-derives the
// payment status. The paid amount can never exceed the total.
func (s *Sale) RecordPayment(method PaymentMethod, amount decimal.Decimal) error {
	if !method.IsValid() {
		return shared.NewValidationError("Invalid payment method")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Payment amount must be positive")
	}

	newPaid := s.PaidAmount.Add(amount)
	if newPaid.GreaterThan(s.TotalAmount) {
		return shared.NewValidationError("Paid amount cannot exceed total amount")
	}

	s.PaymentMethod = method
	s.PaidAmount = newPaid
	s.PaymentStatus = s.derivePaymentStatus()
	s.Touch()
	s.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes on the sale
func (s *Sale) SetNotes(notes string) {
	s.Notes = notes
	s.Touch()
}

// Validate checks the totals invariants before the sale is persisted
func (s *Sale) Validate() error {
	if len(s.Items) == 0 {
		return shared.NewValidationError("Sale must have at least one item")
	}
	if s.TotalAmount.IsNegative() {
		return shared.NewValidationError("Total amount cannot be negative")
	}
	if s.PaidAmount.GreaterThan(s.TotalAmount) {
		return shared.NewValidationError("Paid amount cannot exceed total amount")
	}
	return nil
}

// OutstandingAmount returns the unpaid remainder
func (s *Sale) OutstandingAmount() decimal.Decimal {
	return s.TotalAmount.Sub(s.PaidAmount)
}

// ItemCount returns the number of line items
func (s *Sale) ItemCount() int {
	return len(s.Items)
}

func (s *Sale) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.NetAmount())
	}
	s.Subtotal = subtotal
	s.TotalAmount = s.Subtotal.Add(s.TaxAmount).Sub(s.DiscountAmount)
	if s.TotalAmount.IsNegative() {
		s.TotalAmount = decimal.Zero
	}
	s.PaymentStatus = s.derivePaymentStatus()
}

func (s *Sale) derivePaymentStatus() PaymentStatus {
	switch {
	case s.PaidAmount.IsZero():
		return PaymentStatusUnpaid
	case s.PaidAmount.GreaterThanOrEqual(s.TotalAmount):
		return PaymentStatusPaid
	default:
		return PaymentStatusPartial
	}
}
