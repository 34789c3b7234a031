package catalog

import (
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementKind classifies how a stock movement changes the on-hand quantity
type MovementKind string

const (
	MovementIn         MovementKind = "in"
	MovementOut        MovementKind = "out"
	MovementAdjustment MovementKind = "adjustment"
)

// IsValid checks if the movement kind is valid
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement is the outcome of applying a movement to a product.
// Applied is the magnitude that actually took effect; for adjustments it
// can be smaller than requested when the stock was clamped at zero.
type StockMovement struct {
	Kind          MovementKind
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	Applied       decimal.Decimal
}

// Product is the aggregate root for a sellable item and its stock record.
// CurrentStock is never written directly; every change goes through
// ApplyMovement so the ledger snapshots always agree with the record.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string          `gorm:"size:64;not null;uniqueIndex"`
	Name          string          `gorm:"size:255;not null"`
	Unit          string          `gorm:"size:32;not null;default:'pcs'"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStockLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxStockLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with zero stock
func NewProduct(sku, name, unit string, costPrice, sellingPrice decimal.Decimal) (*Product, error) {
	if sku == "" {
		return nil, shared.NewValidationError("SKU is required")
	}
	if name == "" {
		return nil, shared.NewValidationError("Product name is required")
	}
	if unit == "" {
		unit = "pcs"
	}
	if costPrice.IsNegative() {
		return nil, shared.NewValidationError("Cost price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewValidationError("Selling price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Unit:              unit,
		CurrentStock:      decimal.Zero,
		MinStockLevel:     decimal.Zero,
		MaxStockLevel:     decimal.Zero,
		CostPrice:         costPrice,
		SellingPrice:      sellingPrice,
		Active:            true,
	}, nil
}

// ApplyMovement mutates the stock record. It is the single entry point for
// stock changes.
//
// For MovementIn and MovementOut the quantity must be positive; an outbound
// movement that exceeds the current stock is rejected. For MovementAdjustment
// the quantity is a signed delta and the result is clamped at zero, with
// Applied reporting the magnitude that actually took effect.
func (p *Product) ApplyMovement(kind MovementKind, quantity decimal.Decimal) (*StockMovement, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Unknown movement kind")
	}

	previous := p.CurrentStock

	var newStock, applied decimal.Decimal
	switch kind {
	case MovementIn:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewValidationError("Movement quantity must be positive")
		}
		newStock = previous.Add(quantity)
		applied = quantity
	case MovementOut:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewValidationError("Movement quantity must be positive")
		}
		if quantity.GreaterThan(previous) {
			return nil, shared.NewInsufficientStockError(p.Name, previous, quantity)
		}
		newStock = previous.Sub(quantity)
		applied = quantity
	case MovementAdjustment:
		if quantity.IsZero() {
			return nil, shared.NewValidationError("Adjustment quantity cannot be zero")
		}
		newStock = previous.Add(quantity)
		if newStock.IsNegative() {
			newStock = decimal.Zero
		}
		applied = newStock.Sub(previous).Abs()
	}

	p.CurrentStock = newStock
	p.Touch()
	p.IncrementVersion()

	return &StockMovement{
		Kind:          kind,
		PreviousStock: previous,
		NewStock:      newStock,
		Applied:       applied,
	}, nil
}

// CanFulfill returns true if the current stock covers the requested quantity
func (p *Product) CanFulfill(quantity decimal.Decimal) bool {
	return p.CurrentStock.GreaterThanOrEqual(quantity)
}

// IsBelowMinimum returns true if current stock is at or below the minimum threshold
func (p *Product) IsBelowMinimum() bool {
	return p.MinStockLevel.GreaterThan(decimal.Zero) && p.CurrentStock.LessThanOrEqual(p.MinStockLevel)
}

// IsAboveMaximum returns true if current stock is above the maximum threshold
func (p *Product) IsAboveMaximum() bool {
	return p.MaxStockLevel.GreaterThan(decimal.Zero) && p.CurrentStock.GreaterThan(p.MaxStockLevel)
}

// StockValue returns the current stock valued at cost price
func (p *Product) StockValue() decimal.Decimal {
	return p.CurrentStock.Mul(p.CostPrice)
}

// SetStockLevels updates the minimum and maximum stock thresholds
func (p *Product) SetStockLevels(minLevel, maxLevel decimal.Decimal) error {
	if minLevel.IsNegative() || maxLevel.IsNegative() {
		return shared.NewValidationError("Stock thresholds cannot be negative")
	}
	if maxLevel.GreaterThan(decimal.Zero) && minLevel.GreaterThan(maxLevel) {
		return shared.NewValidationError("Minimum threshold cannot exceed maximum")
	}

	p.MinStockLevel = minLevel
	p.MaxStockLevel = maxLevel
	p.Touch()
	p.IncrementVersion()

	return nil
}

// UpdatePrices updates cost and selling prices
func (p *Product) UpdatePrices(costPrice, sellingPrice decimal.Decimal) error {
	if costPrice.IsNegative() {
		return shared.NewValidationError("Cost price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return shared.NewValidationError("Selling price cannot be negative")
	}

	p.CostPrice = costPrice
	p.SellingPrice = sellingPrice
	p.Touch()
	p.IncrementVersion()

	return nil
}

// UpdateDetails updates the descriptive fields
func (p *Product) UpdateDetails(name, unit string) error {
	if name == "" {
		return shared.NewValidationError("Product name is required")
	}

	p.Name = name
	if unit != "" {
		p.Unit = unit
	}
	p.Touch()
	p.IncrementVersion()

	return nil
}

// Deactivate soft-deletes the product. Stock history is preserved and the
// record can be reactivated later.
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewInvalidStateError("Product is already inactive")
	}

	p.Active = false
	p.Touch()
	p.IncrementVersion()

	return nil
}

// Activate re-enables a deactivated product
func (p *Product) Activate() error {
	if p.Active {
		return shared.NewInvalidStateError("Product is already active")
	}

	p.Active = true
	p.Touch()
	p.IncrementVersion()

	return nil
}
