// Package router wires the HTTP middleware chain and the API routes.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/ims/backend/internal/infrastructure/logger"
	"github.com/ims/backend/internal/infrastructure/telemetry"
	"github.com/ims/backend/internal/interfaces/http/handler"
	"github.com/ims/backend/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router needs
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB

	MeterProvider *telemetry.MeterProvider

	Products       handler.ProductService
	Stock          handler.StockService
	Sales          handler.SaleService
	PurchaseOrders handler.PurchaseOrderService
	Suppliers      handler.SupplierService
	Reports        handler.ReportService
}

// New builds the Gin engine with the full middleware chain and all routes
func New(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(deps.Logger))

	for _, mw := range middleware.Tracing(middleware.TracingConfig{
		ServiceName: deps.Config.Telemetry.ServiceName,
		Enabled:     deps.Config.Telemetry.Enabled,
	}) {
		engine.Use(mw)
	}

	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: deps.MeterProvider,
		Enabled:       deps.MeterProvider != nil,
	}))
	engine.Use(logger.GinMiddleware(deps.Logger))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins
	if len(deps.Config.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = deps.Config.HTTP.CORSAllowMethods
	}
	if len(deps.Config.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = deps.Config.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	registerRoutes(engine, deps)

	return engine
}

func registerRoutes(engine *gin.Engine, deps Dependencies) {
	health := handler.NewHealthHandler(deps.DB)
	engine.GET("/healthz", health.Live)
	engine.GET("/readyz", health.Ready)

	api := engine.Group("/api/v1")

	products := handler.NewProductHandler(deps.Products)
	productRoutes := api.Group("/products")
	{
		productRoutes.POST("", products.Create)
		productRoutes.GET("", products.List)
		productRoutes.GET("/low-stock", products.LowStock)
		productRoutes.GET("/sku/:sku", products.GetBySKU)
		productRoutes.GET("/:id", products.GetByID)
		productRoutes.PUT("/:id", products.Update)
		productRoutes.POST("/:id/activate", products.Activate)
		productRoutes.POST("/:id/deactivate", products.Deactivate)
	}

	stock := handler.NewStockHandler(deps.Stock)
	stockRoutes := api.Group("/stock")
	{
		stockRoutes.POST("/adjustments", stock.Adjust)
		stockRoutes.GET("/entries/by-reference", stock.EntriesByReference)
		stockRoutes.GET("/products/:id/entries", stock.ListEntries)
		stockRoutes.GET("/products/:id/entries/recent", stock.RecentEntries)
		stockRoutes.GET("/products/:id/reconciliation", stock.Reconcile)
	}

	sales := handler.NewSaleHandler(deps.Sales)
	saleRoutes := api.Group("/sales")
	{
		saleRoutes.POST("", sales.Create)
		saleRoutes.GET("", sales.List)
		saleRoutes.GET("/invoice/:number", sales.GetByInvoiceNumber)
		saleRoutes.GET("/:id", sales.GetByID)
		saleRoutes.POST("/:id/payments", sales.RecordPayment)
	}

	orders := handler.NewPurchaseOrderHandler(deps.PurchaseOrders)
	orderRoutes := api.Group("/purchase-orders")
	{
		orderRoutes.POST("", orders.Create)
		orderRoutes.GET("", orders.List)
		orderRoutes.GET("/number/:number", orders.GetByOrderNumber)
		orderRoutes.GET("/:id", orders.GetByID)
		orderRoutes.POST("/:id/receive", orders.Receive)
		orderRoutes.POST("/:id/cancel", orders.Cancel)
	}

	suppliers := handler.NewSupplierHandler(deps.Suppliers)
	supplierRoutes := api.Group("/suppliers")
	{
		supplierRoutes.POST("", suppliers.Create)
		supplierRoutes.GET("", suppliers.List)
		supplierRoutes.GET("/code/:code", suppliers.GetByCode)
		supplierRoutes.GET("/:id", suppliers.GetByID)
		supplierRoutes.PUT("/:id", suppliers.Update)
		supplierRoutes.POST("/:id/activate", suppliers.Activate)
		supplierRoutes.POST("/:id/deactivate", suppliers.Deactivate)
	}

	reports := handler.NewReportHandler(deps.Reports)
	reportRoutes := api.Group("/reports")
	{
		reportRoutes.GET("/low-stock", reports.LowStock)
		reportRoutes.GET("/valuation", reports.Valuation)
		reportRoutes.GET("/products/:id/movements", reports.MovementSummary)
	}
}
