package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryType represents the direction class of a ledger entry
type EntryType string

const (
	EntryTypeIn         EntryType = "in"
	EntryTypeOut        EntryType = "out"
	EntryTypeAdjustment EntryType = "adjustment"
)

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is valid
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeIn, EntryTypeOut, EntryTypeAdjustment:
		return true
	}
	return false
}

// MovementReason represents the business cause of a stock movement
type MovementReason string

const (
	ReasonPurchase     MovementReason = "purchase"
	ReasonSale         MovementReason = "sale"
	ReasonReturn       MovementReason = "return"
	ReasonDamage       MovementReason = "damage"
	ReasonExpired      MovementReason = "expired"
	ReasonTheft        MovementReason = "theft"
	ReasonCorrection   MovementReason = "correction"
	ReasonTransfer     MovementReason = "transfer"
	ReasonInitialStock MovementReason = "initial_stock"
)

// String returns the string representation of MovementReason
func (r MovementReason) String() string {
	return string(r)
}

// IsValid returns true if the movement reason is valid
func (r MovementReason) IsValid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonReturn, ReasonDamage,
		ReasonExpired, ReasonTheft, ReasonCorrection, ReasonTransfer,
		ReasonInitialStock:
		return true
	}
	return false
}

// IsAdjustmentReason returns true if the reason is allowed for manual adjustments
func (r MovementReason) IsAdjustmentReason() bool {
	switch r {
	case ReasonDamage, ReasonExpired, ReasonTheft, ReasonCorrection, ReasonReturn:
		return true
	}
	return false
}

// Reference document types recorded on ledger entries
const (
	ReferenceTypeSale          = "sale"
	ReferenceTypePurchaseOrder = "purchase_order"
	ReferenceTypeAdjustment    = "adjustment"
)

// StockEntry is an immutable record of a stock movement. Once written it is
// never updated or deleted; corrections are made with new entries. The
// PreviousStock/NewStock snapshots make every entry independently auditable.
type StockEntry struct {
	shared.BaseEntity
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_entries_product_time,priority:1"`
	EntryType     EntryType       `gorm:"type:varchar(20);not null;index"`
	Reason        MovementReason  `gorm:"type:varchar(30);not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive, the applied magnitude
	PreviousStock decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewStock      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalValue    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitCost
	ReferenceType string          `gorm:"type:varchar(30);index:idx_stock_entries_reference,priority:1"`
	ReferenceID   string          `gorm:"type:varchar(50);index:idx_stock_entries_reference,priority:2"`
	Notes         string          `gorm:"type:varchar(255)"`
	EntryDate     time.Time       `gorm:"type:timestamptz;not null;index:idx_stock_entries_product_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// NewStockEntry creates a new ledger entry
func NewStockEntry(
	productID uuid.UUID,
	entryType EntryType,
	reason MovementReason,
	quantity decimal.Decimal,
	previousStock decimal.Decimal,
	newStock decimal.Decimal,
	unitCost decimal.Decimal,
) (*StockEntry, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewValidationError("Invalid entry type")
	}
	if !reason.IsValid() {
		return nil, shared.NewValidationError("Invalid movement reason")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Entry quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}
	if previousStock.IsNegative() || newStock.IsNegative() {
		return nil, shared.NewValidationError("Stock snapshots cannot be negative")
	}

	return &StockEntry{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		EntryType:     entryType,
		Reason:        reason,
		Quantity:      quantity,
		PreviousStock: previousStock,
		NewStock:      newStock,
		UnitCost:      unitCost,
		TotalValue:    quantity.Mul(unitCost),
		EntryDate:     time.Now(),
	}, nil
}

// NewEntryFromMovement builds a ledger entry from the outcome of
// Product.ApplyMovement, so the snapshots always come from the mutation
// that actually happened
func NewEntryFromMovement(
	productID uuid.UUID,
	movement *catalog.StockMovement,
	reason MovementReason,
	unitCost decimal.Decimal,
) (*StockEntry, error) {
	if movement == nil {
		return nil, shared.NewValidationError("Movement is required")
	}

	var entryType EntryType
	switch movement.Kind {
	case catalog.MovementIn:
		entryType = EntryTypeIn
	case catalog.MovementOut:
		entryType = EntryTypeOut
	case catalog.MovementAdjustment:
		entryType = EntryTypeAdjustment
	default:
		return nil, shared.NewValidationError("Unknown movement kind")
	}

	return NewStockEntry(productID, entryType, reason,
		movement.Applied, movement.PreviousStock, movement.NewStock, unitCost)
}

// WithReference sets the source document for the entry
func (e *StockEntry) WithReference(referenceType, referenceID string) *StockEntry {
	e.ReferenceType = referenceType
	e.ReferenceID = referenceID
	return e
}

// WithNotes sets free-form notes on the entry
func (e *StockEntry) WithNotes(notes string) *StockEntry {
	e.Notes = notes
	return e
}

// SignedQuantity returns the quantity with direction applied: positive for
// inbound, negative for outbound. For adjustments the sign comes from the
// snapshots. Summing signed quantities over a product's entries must
// reproduce its current stock.
func (e *StockEntry) SignedQuantity() decimal.Decimal {
	switch e.EntryType {
	case EntryTypeIn:
		return e.Quantity
	case EntryTypeOut:
		return e.Quantity.Neg()
	default:
		return e.NewStock.Sub(e.PreviousStock)
	}
}

// StockChange returns the net stock change recorded by the snapshots
func (e *StockEntry) StockChange() decimal.Decimal {
	return e.NewStock.Sub(e.PreviousStock)
}
