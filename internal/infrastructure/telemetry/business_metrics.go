package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics component is created without a meter.
var ErrMeterNil = errors.New("meter cannot be nil")

// BusinessMetrics tracks inventory and trade activity: sales volume, goods
// received, manual adjustments and the health of the stock on hand.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	saleCreatedTotal     *Counter
	saleAmountTotal      *Counter
	stockMovementTotal   *Counter
	purchaseReceiptTotal *Counter

	// Gauge metrics (point-in-time values)
	lowStockProductCount *Gauge
	stockValuation       *FloatGauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	collectInterval time.Duration
	stockProvider   StockMetricsProvider
}

// StockMetricsProvider supplies point-in-time stock figures for periodic
// collection without coupling the telemetry layer to the domain packages.
type StockMetricsProvider interface {
	// LowStockCount returns the number of active products at or below their
	// minimum stock level
	LowStockCount(ctx context.Context) (int64, error)

	// StockValuation returns the total value of stock on hand at cost price
	StockValuation(ctx context.Context) (decimal.Decimal, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	StockProvider   StockMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	interval := cfg.CollectInterval
	if interval == 0 {
		interval = 5 * time.Minute
	}

	bm := &BusinessMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		collectInterval: interval,
		stockProvider:   cfg.StockProvider,
	}

	var err error

	bm.saleCreatedTotal, err = NewCounter(
		cfg.Meter,
		"ims_sale_created_total",
		"Total number of sales recorded",
		"{sales}",
	)
	if err != nil {
		return nil, err
	}

	bm.saleAmountTotal, err = NewCounter(
		cfg.Meter,
		"ims_sale_amount_total",
		"Total sale amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockMovementTotal, err = NewCounter(
		cfg.Meter,
		"ims_stock_movement_total",
		"Total number of stock ledger entries written",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	bm.purchaseReceiptTotal, err = NewCounter(
		cfg.Meter,
		"ims_purchase_receipt_total",
		"Total number of purchase order receiving submissions applied",
		"{receipts}",
	)
	if err != nil {
		return nil, err
	}

	bm.lowStockProductCount, err = NewGauge(
		cfg.Meter,
		"ims_low_stock_product_count",
		"Number of active products at or below their minimum stock level",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockValuation, err = NewFloatGauge(
		cfg.Meter,
		"ims_stock_valuation",
		"Total value of stock on hand at cost price",
		"{currency}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordSale records a completed sale and its amount. The amount is exported
// in cents to keep the counter integral.
func (bm *BusinessMetrics) RecordSale(ctx context.Context, amount decimal.Decimal, paymentMethod string) {
	bm.saleCreatedTotal.Inc(ctx, AttrPaymentMethod.String(paymentMethod))
	bm.saleAmountTotal.Add(ctx, amount.Mul(decimal.NewFromInt(100)).IntPart(),
		AttrPaymentMethod.String(paymentMethod))
}

// RecordStockMovement records one ledger entry by type and reason.
func (bm *BusinessMetrics) RecordStockMovement(ctx context.Context, entryType, reason string) {
	bm.stockMovementTotal.Inc(ctx,
		AttrEntryType.String(entryType),
		AttrMovementReason.String(reason),
	)
}

// RecordPurchaseReceipt records an applied receiving submission.
func (bm *BusinessMetrics) RecordPurchaseReceipt(ctx context.Context, orderStatus string) {
	bm.purchaseReceiptTotal.Inc(ctx, AttrOrderStatus.String(orderStatus))
}

// StartPeriodicCollection starts the background goroutine that samples the
// stock gauges. Safe to call more than once; only the first call starts it.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context) {
	if bm.stockProvider == nil {
		bm.logger.Debug("No stock metrics provider configured, skipping periodic collection")
		return
	}

	bm.collectOnce.Do(func() {
		go bm.collectLoop(ctx)
	})
}

// Stop stops the periodic collector.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

func (bm *BusinessMetrics) collectLoop(ctx context.Context) {
	ticker := time.NewTicker(bm.collectInterval)
	defer ticker.Stop()

	bm.collect(ctx)

	for {
		select {
		case <-ticker.C:
			bm.collect(ctx)
		case <-bm.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (bm *BusinessMetrics) collect(ctx context.Context) {
	if count, err := bm.stockProvider.LowStockCount(ctx); err != nil {
		bm.logger.Warn("Failed to collect low stock count", zap.Error(err))
	} else {
		bm.lowStockProductCount.Record(ctx, count)
	}

	if value, err := bm.stockProvider.StockValuation(ctx); err != nil {
		bm.logger.Warn("Failed to collect stock valuation", zap.Error(err))
	} else {
		bm.stockValuation.Record(ctx, value.InexactFloat64())
	}
}
