package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/ims/backend/internal/application/catalog"
	inventoryapp "github.com/ims/backend/internal/application/inventory"
	partnerapp "github.com/ims/backend/internal/application/partner"
	reportapp "github.com/ims/backend/internal/application/report"
	tradeapp "github.com/ims/backend/internal/application/trade"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/infrastructure/persistence"
	"github.com/ims/backend/tests/testutil"
)

// serviceSet wires the full application service stack over a test database,
// the same way cmd/server does in production.
type serviceSet struct {
	Products  *catalogapp.ProductService
	Stock     *inventoryapp.StockService
	Sales     *tradeapp.SaleService
	Orders    *tradeapp.PurchaseOrderService
	Suppliers *partnerapp.SupplierService
	Reports   *reportapp.ReportService

	ProductRepo catalog.ProductRepository
	EntryRepo   ledger.StockEntryRepository
}

func newServices(tdb *TestDB) *serviceSet {
	productRepo := persistence.NewGormProductRepository(tdb.DB)
	supplierRepo := persistence.NewGormSupplierRepository(tdb.DB)
	entryRepo := persistence.NewGormStockEntryRepository(tdb.DB)
	saleRepo := persistence.NewGormSaleRepository(tdb.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(tdb.DB)
	scope := persistence.NewGormTransactionScope(tdb.DB)

	return &serviceSet{
		Products:  catalogapp.NewProductService(scope, productRepo),
		Stock:     inventoryapp.NewStockService(scope, entryRepo, productRepo),
		Sales:     tradeapp.NewSaleService(scope, saleRepo),
		Orders:    tradeapp.NewPurchaseOrderService(scope, orderRepo, supplierRepo, productRepo),
		Suppliers: partnerapp.NewSupplierService(supplierRepo),
		Reports:   reportapp.NewReportService(productRepo, entryRepo),

		ProductRepo: productRepo,
		EntryRepo:   entryRepo,
	}
}

// createProduct seeds a product through the product service so the initial
// stock also lands in the ledger.
func createProduct(t *testing.T, services *serviceSet, initialStock string) *catalogapp.ProductResponse {
	t.Helper()

	stock, err := decimal.NewFromString(initialStock)
	require.NoError(t, err)

	product, err := services.Products.Create(context.Background(), catalogapp.CreateProductRequest{
		SKU:          testutil.UniqueSKU("RICE"),
		Name:         "Rice 5kg",
		Unit:         "bag",
		CostPrice:    decimal.NewFromInt(8),
		SellingPrice: decimal.NewFromInt(10),
		InitialStock: stock,
	})
	require.NoError(t, err)
	return product
}

func createSupplier(t *testing.T, services *serviceSet) *partnerapp.SupplierResponse {
	t.Helper()

	supplier, err := services.Suppliers.Create(context.Background(), partnerapp.CreateSupplierRequest{
		Code: testutil.UniqueCode("SUP"),
		Name: "Acme Wholesale",
	})
	require.NoError(t, err)
	return supplier
}
