package trade

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSale(t *testing.T) *Sale {
	t.Helper()
	sale, err := NewSale("INV25080001", "Walk-in Customer", "555-0100")
	require.NoError(t, err)
	return sale
}

func TestNewSale(t *testing.T) {
	t.Run("creates unpaid sale", func(t *testing.T) {
		sale := createTestSale(t)

		assert.Equal(t, "INV25080001", sale.InvoiceNumber)
		assert.Equal(t, PaymentStatusUnpaid, sale.PaymentStatus)
		assert.True(t, sale.TotalAmount.IsZero())
		assert.False(t, sale.SaleDate.IsZero())
	})

	t.Run("fails without invoice number", func(t *testing.T) {
		_, err := NewSale("", "Customer", "")
		require.Error(t, err)
	})
}

func TestSaleTotals(t *testing.T) {
	t.Run("subtotal sums line net amounts", func(t *testing.T) {
		sale := createTestSale(t)

		// 3 * 100 with 20 line discount, 2 * 50 with no discount
		_, err := sale.AddItem(uuid.New(), "Widget", "SKU-001",
			decimal.NewFromInt(3), decimal.NewFromInt(100), decimal.NewFromInt(20))
		require.NoError(t, err)
		_, err = sale.AddItem(uuid.New(), "Gadget", "SKU-002",
			decimal.NewFromInt(2), decimal.NewFromInt(50), decimal.Zero)
		require.NoError(t, err)

		assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(380)))
		assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(380)))
	})

	t.Run("total applies tax and sale-level discount", func(t *testing.T) {
		sale := createTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Widget", "SKU-001",
			decimal.NewFromInt(4), decimal.NewFromInt(100), decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, sale.SetTaxAndDiscount(decimal.NewFromInt(40), decimal.NewFromInt(15)))
		assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(425)))
	})

	t.Run("rejects discount exceeding subtotal plus tax", func(t *testing.T) {
		sale := createTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Widget", "SKU-001",
			decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)

		err = sale.SetTaxAndDiscount(decimal.Zero, decimal.NewFromInt(11))
		require.Error(t, err)
	})

	t.Run("rejects line discount exceeding line total", func(t *testing.T) {
		sale := createTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Widget", "SKU-001",
			decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.NewFromInt(11))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestRecordPayment(t *testing.T) {
	setup := func(t *testing.T) *Sale {
		sale := createTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Widget", "SKU-001",
			decimal.NewFromInt(2), decimal.NewFromInt(100), decimal.Zero)
		require.NoError(t, err)
		return sale
	}

	t.Run("partial payment", func(t *testing.T) {
		sale := setup(t)

		require.NoError(t, sale.RecordPayment(PaymentMethodCash, decimal.NewFromInt(50)))
		assert.Equal(t, PaymentStatusPartial, sale.PaymentStatus)
		assert.True(t, sale.OutstandingAmount().Equal(decimal.NewFromInt(150)))
	})

	t.Run("full payment", func(t *testing.T) {
		sale := setup(t)

		require.NoError(t, sale.RecordPayment(PaymentMethodTransfer, decimal.NewFromInt(200)))
		assert.Equal(t, PaymentStatusPaid, sale.PaymentStatus)
		assert.True(t, sale.OutstandingAmount().IsZero())
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		sale := setup(t)
		require.NoError(t, sale.RecordPayment(PaymentMethodCash, decimal.NewFromInt(150)))

		err := sale.RecordPayment(PaymentMethodCash, decimal.NewFromInt(51))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidation))
		assert.Equal(t, PaymentStatusPartial, sale.PaymentStatus)
	})

	t.Run("rejects invalid method and non-positive amount", func(t *testing.T) {
		sale := setup(t)

		require.Error(t, sale.RecordPayment(PaymentMethod("barter"), decimal.NewFromInt(10)))
		require.Error(t, sale.RecordPayment(PaymentMethodCash, decimal.Zero))
	})
}

func TestSaleValidate(t *testing.T) {
	t.Run("rejects sale without items", func(t *testing.T) {
		sale := createTestSale(t)
		err := sale.Validate()
		require.Error(t, err)
	})

	t.Run("accepts well-formed sale", func(t *testing.T) {
		sale := createTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Widget", "SKU-001",
			decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, sale.Validate())
	})
}
