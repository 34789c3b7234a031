package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryapp "github.com/ims/backend/internal/application/inventory"
	tradeapp "github.com/ims/backend/internal/application/trade"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/tests/testutil"
)

// The walkthrough: 20 on hand, sell 5, then adjust by -25 which clamps
// at zero and records the 15 actually removed.
func TestStockLedger_SaleThenClampedAdjustment(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)
	ctx := context.Background()

	product := createProduct(t, services, "20")
	testutil.RequireDecimal(t, "20", product.CurrentStock)

	// Initial stock shows up in the ledger
	entries, err := services.Stock.RecentEntries(ctx, product.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "in", entries[0].EntryType)
	assert.Equal(t, "initial_stock", entries[0].Reason)
	testutil.RequireDecimal(t, "20", entries[0].Quantity)

	// Sell 5
	sale, err := services.Sales.Create(ctx, tradeapp.CreateSaleRequest{
		CustomerName: "Walk-in",
		Items: []tradeapp.SaleLineRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	refreshed, err := services.ProductRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	testutil.RequireDecimal(t, "15", refreshed.CurrentStock)

	// Adjust by -25: only 15 can come off
	adjustment, err := services.Stock.Adjust(ctx, inventoryapp.AdjustStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(-25),
		Reason:    "damage",
		Notes:     "flood damage in the back room",
	})
	require.NoError(t, err)
	assert.True(t, adjustment.Clamped)
	testutil.RequireDecimal(t, "25", adjustment.Requested)
	testutil.RequireDecimal(t, "15", adjustment.Applied)
	testutil.RequireDecimal(t, "15", adjustment.PreviousStock)
	testutil.RequireDecimal(t, "0", adjustment.NewStock)

	refreshed, err = services.ProductRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	testutil.RequireDecimal(t, "0", refreshed.CurrentStock)

	// The ledger now holds initial stock, the sale line, and the clamped
	// adjustment with its applied magnitude
	entries, err = services.Stock.RecentEntries(ctx, product.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	newest := entries[0]
	assert.Equal(t, "adjustment", newest.EntryType)
	assert.Equal(t, "damage", newest.Reason)
	testutil.RequireDecimal(t, "15", newest.Quantity)
	testutil.RequireDecimal(t, "15", newest.PreviousStock)
	testutil.RequireDecimal(t, "0", newest.NewStock)

	saleEntry := entries[1]
	assert.Equal(t, "out", saleEntry.EntryType)
	assert.Equal(t, "sale", saleEntry.Reason)
	assert.Equal(t, sale.InvoiceNumber, saleEntry.ReferenceID)

	// Snapshots still agree with the stock record
	recon, err := services.Stock.Reconcile(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, recon.Consistent)
	testutil.RequireDecimal(t, "0", recon.Difference)
}

func TestStockLedger_AdjustmentValidation(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)
	ctx := context.Background()

	product := createProduct(t, services, "10")

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := services.Stock.Adjust(ctx, inventoryapp.AdjustStockRequest{
			ProductID: product.ID,
			Quantity:  decimal.Zero,
			Reason:    "correction",
		})
		require.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("unknown reason rejected", func(t *testing.T) {
		_, err := services.Stock.Adjust(ctx, inventoryapp.AdjustStockRequest{
			ProductID: product.ID,
			Quantity:  decimal.NewFromInt(1),
			Reason:    "shrinkage",
		})
		require.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("negative adjustment on empty stock clamps to a no-op", func(t *testing.T) {
		empty := createProduct(t, services, "0")
		adjustment, err := services.Stock.Adjust(ctx, inventoryapp.AdjustStockRequest{
			ProductID: empty.ID,
			Quantity:  decimal.NewFromInt(-5),
			Reason:    "damage",
		})
		require.NoError(t, err)
		assert.True(t, adjustment.Clamped)
		testutil.RequireDecimal(t, "5", adjustment.Requested)
		testutil.RequireDecimal(t, "0", adjustment.Applied)
		testutil.RequireDecimal(t, "0", adjustment.NewStock)

		// Nothing moved, so the ledger stays empty
		entries, err := services.Stock.RecentEntries(ctx, empty.ID, 10)
		require.NoError(t, err)
		require.Empty(t, entries)
	})
}

func TestStockLedger_EntriesByReference(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)
	ctx := context.Background()

	product := createProduct(t, services, "50")

	sale, err := services.Sales.Create(ctx, tradeapp.CreateSaleRequest{
		Items: []tradeapp.SaleLineRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)

	entries, err := services.Stock.EntriesByReference(ctx,
		ledger.ReferenceTypeSale, sale.InvoiceNumber)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, product.ID, entries[0].ProductID)
	testutil.RequireDecimal(t, "3", entries[0].Quantity)
}
