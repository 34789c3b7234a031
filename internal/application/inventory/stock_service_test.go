package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createStockedProduct(t *testing.T, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("SKU-001", "Widget", "pcs",
		decimal.NewFromInt(10), decimal.NewFromInt(15))
	require.NoError(t, err)
	if stock > 0 {
		_, err = product.ApplyMovement(catalog.MovementIn, decimal.NewFromInt(stock))
		require.NoError(t, err)
	}
	return product
}

func newStockService(productRepo *MockProductRepository, entryRepo *MockStockEntryRepository) *StockService {
	scope := NewNoOpTransactionScope(productRepo, entryRepo, nil, nil, nil)
	return NewStockService(scope, entryRepo, productRepo)
}

func TestStockServiceAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("applies negative adjustment", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)
		product := createStockedProduct(t, 20)

		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		productRepo.On("SaveWithLock", mock.Anything, product).Return(nil)
		entryRepo.On("Append", mock.Anything, mock.AnythingOfType("*ledger.StockEntry")).Return(nil)

		service := newStockService(productRepo, entryRepo)
		resp, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Quantity:  decimal.NewFromInt(-5),
			Reason:    "damage",
		})

		require.NoError(t, err)
		assert.True(t, resp.Applied.Equal(decimal.NewFromInt(5)))
		assert.False(t, resp.Clamped)
		assert.True(t, resp.NewStock.Equal(decimal.NewFromInt(15)))
		assert.True(t, product.CurrentStock.Equal(decimal.NewFromInt(15)))
		productRepo.AssertExpectations(t)
		entryRepo.AssertExpectations(t)
	})

	t.Run("clamps at zero and records applied magnitude", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)
		product := createStockedProduct(t, 15)

		var appended *ledger.StockEntry
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		productRepo.On("SaveWithLock", mock.Anything, product).Return(nil)
		entryRepo.On("Append", mock.Anything, mock.AnythingOfType("*ledger.StockEntry")).
			Run(func(args mock.Arguments) {
				appended = args.Get(1).(*ledger.StockEntry)
			}).Return(nil)

		service := newStockService(productRepo, entryRepo)
		resp, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Quantity:  decimal.NewFromInt(-25),
			Reason:    "correction",
		})

		require.NoError(t, err)
		assert.True(t, resp.NewStock.IsZero())
		assert.True(t, resp.Applied.Equal(decimal.NewFromInt(15)))
		assert.True(t, resp.Clamped)

		require.NotNil(t, appended)
		assert.Equal(t, ledger.EntryTypeAdjustment, appended.EntryType)
		assert.True(t, appended.Quantity.Equal(decimal.NewFromInt(15)))
		assert.True(t, appended.PreviousStock.Equal(decimal.NewFromInt(15)))
		assert.True(t, appended.NewStock.IsZero())
	})

	t.Run("fully clamped adjustment succeeds without a ledger entry", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)
		product := createStockedProduct(t, 0)

		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		service := newStockService(productRepo, entryRepo)
		resp, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Quantity:  decimal.NewFromInt(-5),
			Reason:    "damage",
		})

		require.NoError(t, err)
		assert.True(t, resp.Clamped)
		assert.True(t, resp.Requested.Equal(decimal.NewFromInt(5)))
		assert.True(t, resp.Applied.IsZero())
		assert.True(t, resp.NewStock.IsZero())
		assert.Equal(t, uuid.Nil, resp.EntryID)

		// No stock moved, so nothing was persisted
		productRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		entryRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("rejects reason not allowed for adjustments", func(t *testing.T) {
		service := newStockService(new(MockProductRepository), new(MockStockEntryRepository))

		_, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: uuid.New(),
			Quantity:  decimal.NewFromInt(-5),
			Reason:    "sale",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("retries after a version conflict", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)
		stale := createStockedProduct(t, 20)
		fresh := createStockedProduct(t, 20)
		fresh.ID = stale.ID

		productRepo.On("FindByID", mock.Anything, stale.ID).Return(stale, nil).Once()
		productRepo.On("SaveWithLock", mock.Anything, stale).Return(shared.ErrConcurrencyConflict).Once()
		productRepo.On("FindByID", mock.Anything, stale.ID).Return(fresh, nil).Once()
		productRepo.On("SaveWithLock", mock.Anything, fresh).Return(nil).Once()
		entryRepo.On("Append", mock.Anything, mock.AnythingOfType("*ledger.StockEntry")).Return(nil).Once()

		service := newStockService(productRepo, entryRepo)
		resp, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: stale.ID,
			Quantity:  decimal.NewFromInt(-5),
			Reason:    "theft",
		})

		require.NoError(t, err)
		assert.True(t, resp.NewStock.Equal(decimal.NewFromInt(15)))
		productRepo.AssertExpectations(t)
	})

	t.Run("propagates not found", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)
		id := uuid.New()
		productRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		service := newStockService(productRepo, entryRepo)
		_, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: id,
			Quantity:  decimal.NewFromInt(3),
			Reason:    "correction",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestStockServiceReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("consistent record", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)
		product := createStockedProduct(t, 20)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		entryRepo.On("SumSignedByProduct", ctx, product.ID).Return(decimal.NewFromInt(20), nil)

		service := newStockService(productRepo, entryRepo)
		resp, err := service.Reconcile(ctx, product.ID)

		require.NoError(t, err)
		assert.True(t, resp.Consistent)
		assert.True(t, resp.Difference.IsZero())
	})

	t.Run("reports drift", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)
		product := createStockedProduct(t, 20)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		entryRepo.On("SumSignedByProduct", ctx, product.ID).Return(decimal.NewFromInt(17), nil)

		service := newStockService(productRepo, entryRepo)
		resp, err := service.Reconcile(ctx, product.ID)

		require.NoError(t, err)
		assert.False(t, resp.Consistent)
		assert.True(t, resp.Difference.Equal(decimal.NewFromInt(3)))
	})
}

func TestStockServiceQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("lists entries with defaults", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)
		productID := uuid.New()

		entry, err := ledger.NewStockEntry(productID, ledger.EntryTypeIn, ledger.ReasonPurchase,
			decimal.NewFromInt(5), decimal.Zero, decimal.NewFromInt(5), decimal.NewFromInt(10))
		require.NoError(t, err)

		page := &shared.Paginated[ledger.StockEntry]{
			Items: []ledger.StockEntry{*entry}, Total: 1, Page: 1, PageSize: 20, TotalPages: 1,
		}
		entryRepo.On("FindByProduct", ctx, productID, mock.AnythingOfType("shared.Filter")).Return(page, nil)

		service := newStockService(productRepo, entryRepo)
		resp, err := service.ListEntries(ctx, productID, EntryListFilter{})

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "in", resp.Items[0].EntryType)
		assert.Equal(t, "purchase", resp.Items[0].Reason)
	})

	t.Run("returns entries by reference", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		entryRepo := new(MockStockEntryRepository)

		entryRepo.On("FindByReference", ctx, ledger.ReferenceTypeSale, "INV25080001").
			Return([]ledger.StockEntry{}, nil)

		service := newStockService(productRepo, entryRepo)
		resp, err := service.EntriesByReference(ctx, ledger.ReferenceTypeSale, "INV25080001")

		require.NoError(t, err)
		assert.Empty(t, resp)
	})
}
