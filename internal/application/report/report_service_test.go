package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntry(t *testing.T, productID uuid.UUID, entryType ledger.EntryType, reason ledger.MovementReason, qty, prev, next int64) ledger.StockEntry {
	t.Helper()
	entry, err := ledger.NewStockEntry(productID, entryType, reason,
		decimal.NewFromInt(qty), decimal.NewFromInt(prev), decimal.NewFromInt(next),
		decimal.NewFromInt(10))
	require.NoError(t, err)
	return *entry
}

func TestReportServiceLowStock(t *testing.T) {
	ctx := context.Background()

	productRepo := new(MockProductRepository)
	entryRepo := new(MockStockEntryRepository)

	product, err := catalog.NewProduct("SKU-001", "Widget", "pcs",
		decimal.NewFromInt(10), decimal.NewFromInt(15))
	require.NoError(t, err)
	require.NoError(t, product.SetStockLevels(decimal.NewFromInt(8), decimal.NewFromInt(80)))
	_, err = product.ApplyMovement(catalog.MovementIn, decimal.NewFromInt(3))
	require.NoError(t, err)

	productRepo.On("FindBelowMinimum", ctx).Return([]catalog.Product{*product}, nil)

	service := NewReportService(productRepo, entryRepo)
	items, err := service.LowStock(ctx)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Shortfall.Equal(decimal.NewFromInt(5)))
}

func TestReportServiceValuation(t *testing.T) {
	ctx := context.Background()

	productRepo := new(MockProductRepository)
	entryRepo := new(MockStockEntryRepository)
	productRepo.On("StockValuation", ctx).Return(decimal.NewFromInt(12345), nil)

	service := NewReportService(productRepo, entryRepo)
	report, err := service.Valuation(ctx)

	require.NoError(t, err)
	assert.True(t, report.TotalValue.Equal(decimal.NewFromInt(12345)))
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestReportServiceMovementSummary(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("aggregates period movements", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)

		product, err := catalog.NewProduct("SKU-001", "Widget", "pcs",
			decimal.NewFromInt(10), decimal.NewFromInt(15))
		require.NoError(t, err)

		entries := []ledger.StockEntry{
			makeEntry(t, product.ID, ledger.EntryTypeIn, ledger.ReasonPurchase, 50, 10, 60),
			makeEntry(t, product.ID, ledger.EntryTypeOut, ledger.ReasonSale, 20, 60, 40),
			makeEntry(t, product.ID, ledger.EntryTypeAdjustment, ledger.ReasonDamage, 5, 40, 35),
		}

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		entryRepo.On("FindByProductBetween", ctx, product.ID, from, to).Return(entries, nil)

		service := NewReportService(productRepo, entryRepo)
		report, err := service.MovementSummary(ctx, product.ID, from, to)

		require.NoError(t, err)
		assert.True(t, report.OpeningStock.Equal(decimal.NewFromInt(10)))
		assert.True(t, report.ClosingStock.Equal(decimal.NewFromInt(35)))
		assert.True(t, report.TotalIn.Equal(decimal.NewFromInt(50)))
		assert.True(t, report.TotalOut.Equal(decimal.NewFromInt(20)))
		assert.True(t, report.NetAdjustment.Equal(decimal.NewFromInt(-5)))
		assert.Equal(t, 3, report.EntryCount)
	})

	t.Run("empty period reports current stock", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)

		product, err := catalog.NewProduct("SKU-001", "Widget", "pcs",
			decimal.NewFromInt(10), decimal.NewFromInt(15))
		require.NoError(t, err)
		_, err = product.ApplyMovement(catalog.MovementIn, decimal.NewFromInt(7))
		require.NoError(t, err)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		entryRepo.On("FindByProductBetween", ctx, product.ID, from, to).Return([]ledger.StockEntry{}, nil)

		service := NewReportService(productRepo, entryRepo)
		report, err := service.MovementSummary(ctx, product.ID, from, to)

		require.NoError(t, err)
		assert.True(t, report.OpeningStock.Equal(decimal.NewFromInt(7)))
		assert.True(t, report.ClosingStock.Equal(decimal.NewFromInt(7)))
		assert.Equal(t, 0, report.EntryCount)
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		service := NewReportService(new(MockProductRepository), new(MockStockEntryRepository))

		_, err := service.MovementSummary(ctx, uuid.New(), to, from)
		require.Error(t, err)
	})
}
