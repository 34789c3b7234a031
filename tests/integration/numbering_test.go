package integration

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tradeapp "github.com/ims/backend/internal/application/trade"
)

func TestNumbering_InvoiceNumberFormat(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)
	ctx := context.Background()

	product := createProduct(t, services, "50")

	sale, err := services.Sales.Create(ctx, tradeapp.CreateSaleRequest{
		Items: []tradeapp.SaleLineRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	// INV + YYMM + zero padded monthly sequence
	prefix := fmt.Sprintf("INV%s", time.Now().Format("0601"))
	assert.Regexp(t, regexp.MustCompile(`^INV\d{4}\d{4,}$`), sale.InvoiceNumber)
	assert.Contains(t, sale.InvoiceNumber, prefix)
}

// Concurrent document creation must never hand out the same number twice.
// The unique index would catch a duplicate, so it is enough that all
// submissions succeed and the numbers differ.
func TestNumbering_ConcurrentUniqueness(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)
	ctx := context.Background()

	product := createProduct(t, services, "100")

	const workers = 5
	workerServices := make([]*serviceSet, workers)
	for i := 0; i < workers; i++ {
		workerServices[i] = newServices(NewSharedTestDB(t))
	}

	var wg sync.WaitGroup
	invoices := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sale, err := workerServices[i].Sales.Create(ctx, tradeapp.CreateSaleRequest{
				Items: []tradeapp.SaleLineRequest{
					{ProductID: product.ID, Quantity: decimal.NewFromInt(1)},
				},
			})
			if err != nil {
				errs[i] = err
				return
			}
			invoices[i] = sale.InvoiceNumber
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, workers)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i], "worker %d failed", i)
		require.NotEmpty(t, invoices[i])
		assert.False(t, seen[invoices[i]], "duplicate invoice number %s", invoices[i])
		seen[invoices[i]] = true
	}
}

func TestNumbering_PurchaseOrderNumbersIncrement(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)

	product := createProduct(t, services, "0")
	supplier := createSupplier(t, services)

	first := createOrder(t, services, product.ID, supplier.ID, 5)
	second := createOrder(t, services, product.ID, supplier.ID, 5)

	assert.Regexp(t, orderNumberPattern, first.OrderNumber)
	assert.Regexp(t, orderNumberPattern, second.OrderNumber)
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
	assert.Greater(t, second.OrderNumber, first.OrderNumber)
}
