package report

import (
	"context"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// StockMetricsSource exposes stock health figures for periodic metrics
// collection. It reads through the product repository only.
type StockMetricsSource struct {
	productRepo catalog.ProductRepository
}

// NewStockMetricsSource creates a new StockMetricsSource
func NewStockMetricsSource(productRepo catalog.ProductRepository) *StockMetricsSource {
	return &StockMetricsSource{productRepo: productRepo}
}

// LowStockCount returns how many active products sit at or below their
// minimum stock level
func (s *StockMetricsSource) LowStockCount(ctx context.Context) (int64, error) {
	products, err := s.productRepo.FindBelowMinimum(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(products)), nil
}

// StockValuation returns the total stock value at cost price
func (s *StockMetricsSource) StockValuation(ctx context.Context) (decimal.Decimal, error) {
	return s.productRepo.StockValuation(ctx)
}
