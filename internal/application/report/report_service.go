package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LowStockItem is one product at or below its minimum stock level
type LowStockItem struct {
	ProductID     uuid.UUID       `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	Shortfall     decimal.Decimal `json:"shortfall"`
}

// StockValuationReport values the stock on hand at cost price
type StockValuationReport struct {
	TotalValue  decimal.Decimal `json:"total_value"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// MovementSummaryReport aggregates a product's ledger over a period
type MovementSummaryReport struct {
	ProductID     uuid.UUID       `json:"product_id"`
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	OpeningStock  decimal.Decimal `json:"opening_stock"`
	ClosingStock  decimal.Decimal `json:"closing_stock"`
	TotalIn       decimal.Decimal `json:"total_in"`
	TotalOut      decimal.Decimal `json:"total_out"`
	NetAdjustment decimal.Decimal `json:"net_adjustment"`
	EntryCount    int             `json:"entry_count"`
}

// ReportService builds read-only reports from the stock records and the
// ledger. It never mutates anything.
type ReportService struct {
	productRepo catalog.ProductRepository
	entryRepo   ledger.StockEntryRepository
}

// NewReportService creates a new ReportService
func NewReportService(productRepo catalog.ProductRepository, entryRepo ledger.StockEntryRepository) *ReportService {
	return &ReportService{
		productRepo: productRepo,
		entryRepo:   entryRepo,
	}
}

// LowStock lists active products at or below their minimum stock level
func (s *ReportService) LowStock(ctx context.Context) ([]LowStockItem, error) {
	products, err := s.productRepo.FindBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]LowStockItem, 0, len(products))
	for i := range products {
		product := &products[i]
		items = append(items, LowStockItem{
			ProductID:     product.ID,
			SKU:           product.SKU,
			Name:          product.Name,
			CurrentStock:  product.CurrentStock,
			MinStockLevel: product.MinStockLevel,
			Shortfall:     product.MinStockLevel.Sub(product.CurrentStock),
		})
	}
	return items, nil
}

// Valuation values the stock on hand of all active products at cost price
func (s *ReportService) Valuation(ctx context.Context) (*StockValuationReport, error) {
	total, err := s.productRepo.StockValuation(ctx)
	if err != nil {
		return nil, err
	}
	return &StockValuationReport{
		TotalValue:  total,
		GeneratedAt: time.Now(),
	}, nil
}

// MovementSummary aggregates a product's ledger entries in [from, to).
// Opening and closing stock come from the snapshots of the boundary entries;
// a period without entries reports the current stock for both.
func (s *ReportService) MovementSummary(ctx context.Context, productID uuid.UUID, from, to time.Time) (*MovementSummaryReport, error) {
	if !to.After(from) {
		return nil, shared.NewValidationError("Period end must be after period start")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.FindByProductBetween(ctx, productID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &MovementSummaryReport{
		ProductID:     productID,
		From:          from,
		To:            to,
		OpeningStock:  product.CurrentStock,
		ClosingStock:  product.CurrentStock,
		TotalIn:       decimal.Zero,
		TotalOut:      decimal.Zero,
		NetAdjustment: decimal.Zero,
		EntryCount:    len(entries),
	}

	if len(entries) == 0 {
		return summary, nil
	}

	summary.OpeningStock = entries[0].PreviousStock
	summary.ClosingStock = entries[len(entries)-1].NewStock

	for i := range entries {
		entry := &entries[i]
		switch entry.EntryType {
		case ledger.EntryTypeIn:
			summary.TotalIn = summary.TotalIn.Add(entry.Quantity)
		case ledger.EntryTypeOut:
			summary.TotalOut = summary.TotalOut.Add(entry.Quantity)
		case ledger.EntryTypeAdjustment:
			summary.NetAdjustment = summary.NetAdjustment.Add(entry.SignedQuantity())
		}
	}

	return summary, nil
}
