package integration

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/ims/backend/internal/interfaces/http/dto"
	"github.com/ims/backend/internal/interfaces/http/router"
	"github.com/ims/backend/tests/testutil"
)

func newTestRouter(t *testing.T, tdb *TestDB, services *serviceSet) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	return router.New(router.Dependencies{
		Config: &config.Config{},
		Logger: zaptest.NewLogger(t),
		DB:     tdb.DB,

		Products:       services.Products,
		Stock:          services.Stock,
		Sales:          services.Sales,
		PurchaseOrders: services.Orders,
		Suppliers:      services.Suppliers,
		Reports:        services.Reports,
	})
}

// Full sale round trip over HTTP: create a product, sell from it, and check
// both the response envelope and the resulting stock.
func TestAPI_SaleRoundTrip(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)
	engine := newTestRouter(t, tdb, services)

	sku := testutil.UniqueSKU("API")
	w := testutil.PerformJSON(t, engine, http.MethodPost, "/api/v1/products", gin.H{
		"sku":           sku,
		"name":          "Noodles 500g",
		"unit":          "box",
		"cost_price":    "4",
		"selling_price": "6",
		"initial_stock": "20",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.Response
	testutil.DecodeJSON(t, w, &created)
	require.True(t, created.Success)
	productID := created.Data.(map[string]interface{})["id"].(string)

	w = testutil.PerformJSON(t, engine, http.MethodPost, "/api/v1/sales", gin.H{
		"customer_name": "Walk-in",
		"items": []gin.H{
			{"product_id": productID, "quantity": "5"},
		},
		"payment_method": "cash",
		"paid_amount":    "30",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var saleResp dto.Response
	testutil.DecodeJSON(t, w, &saleResp)
	require.True(t, saleResp.Success)
	saleData := saleResp.Data.(map[string]interface{})
	assert.Equal(t, "30", saleData["total_amount"])
	assert.Equal(t, "paid", saleData["payment_status"])
	require.NotEmpty(t, saleData["invoice_number"])

	// Stock is down to 15
	w = testutil.PerformJSON(t, engine, http.MethodGet, "/api/v1/products/"+productID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var productResp dto.Response
	testutil.DecodeJSON(t, w, &productResp)
	assert.Equal(t, "15", productResp.Data.(map[string]interface{})["current_stock"])
}

func TestAPI_InsufficientStockEnvelope(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)
	engine := newTestRouter(t, tdb, services)

	product := createProduct(t, services, "2")

	w := testutil.PerformJSON(t, engine, http.MethodPost, "/api/v1/sales", gin.H{
		"items": []gin.H{
			{"product_id": product.ID, "quantity": "5"},
		},
	}, nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	testutil.DecodeJSON(t, w, &resp)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestAPI_AdjustmentClampOverHTTP(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)
	engine := newTestRouter(t, tdb, services)

	product := createProduct(t, services, "15")

	w := testutil.PerformJSON(t, engine, http.MethodPost, "/api/v1/stock/adjustments", gin.H{
		"product_id": product.ID,
		"quantity":   "-25",
		"reason":     "damage",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	testutil.DecodeJSON(t, w, &resp)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["clamped"])
	assert.Equal(t, "15", data["applied"])
	assert.Equal(t, "0", data["new_stock"])
}

func TestAPI_ReportsValuation(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)
	engine := newTestRouter(t, tdb, services)

	product := createProduct(t, services, "10")
	_ = product

	w := testutil.PerformJSON(t, engine, http.MethodGet, "/api/v1/reports/valuation", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	testutil.DecodeJSON(t, w, &resp)
	require.True(t, resp.Success)

	total, err := decimal.NewFromString(resp.Data.(map[string]interface{})["total_value"].(string))
	require.NoError(t, err)
	// 10 on hand at cost price 8, plus whatever other tests have seeded
	assert.True(t, total.GreaterThanOrEqual(decimal.NewFromInt(80)))
}

func TestAPI_Health(t *testing.T) {
	tdb := NewSharedTestDB(t)
	services := newServices(tdb)
	engine := newTestRouter(t, tdb, services)

	w := testutil.PerformJSON(t, engine, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.PerformJSON(t, engine, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
