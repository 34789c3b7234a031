package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest is a manual stock adjustment. Quantity is a signed
// delta: positive adds stock, negative removes it.
type AdjustStockRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reason    string          `json:"reason" binding:"required"`
	Notes     string          `json:"notes"`
}

// AdjustmentResponse reports what an adjustment actually did. Applied can be
// smaller than the requested magnitude when the stock was clamped at zero.
type AdjustmentResponse struct {
	EntryID       uuid.UUID       `json:"entry_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Requested     decimal.Decimal `json:"requested"`
	Applied       decimal.Decimal `json:"applied"`
	Clamped       bool            `json:"clamped"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
}

// StockEntryResponse is the read model for a ledger entry
type StockEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	EntryType     string          `json:"entry_type"`
	Reason        string          `json:"reason"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalValue    decimal.Decimal `json:"total_value"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	EntryDate     time.Time       `json:"entry_date"`
}

// ReconciliationResponse compares a product's stock record against the sum
// of its ledger entries
type ReconciliationResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductSKU    string          `json:"product_sku"`
	ProductName   string          `json:"product_name"`
	RecordedStock decimal.Decimal `json:"recorded_stock"`
	LedgerStock   decimal.Decimal `json:"ledger_stock"`
	Difference    decimal.Decimal `json:"difference"`
	Consistent    bool            `json:"consistent"`
}

// EntryListFilter carries pagination parameters for ledger queries
type EntryListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderDir string `form:"order_dir"`
}

// ToStockEntryResponse converts a ledger entry to its read model
func ToStockEntryResponse(entry *ledger.StockEntry) StockEntryResponse {
	return StockEntryResponse{
		ID:            entry.ID,
		ProductID:     entry.ProductID,
		EntryType:     entry.EntryType.String(),
		Reason:        entry.Reason.String(),
		Quantity:      entry.Quantity,
		PreviousStock: entry.PreviousStock,
		NewStock:      entry.NewStock,
		UnitCost:      entry.UnitCost,
		TotalValue:    entry.TotalValue,
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		Notes:         entry.Notes,
		EntryDate:     entry.EntryDate,
	}
}

// ToStockEntryResponses converts a slice of ledger entries
func ToStockEntryResponses(entries []ledger.StockEntry) []StockEntryResponse {
	responses := make([]StockEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToStockEntryResponse(&entries[i]))
	}
	return responses
}

// ToEntryPage converts a paginated domain result to the read model
func ToEntryPage(page *shared.Paginated[ledger.StockEntry]) *shared.Paginated[StockEntryResponse] {
	return &shared.Paginated[StockEntryResponse]{
		Items:      ToStockEntryResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
