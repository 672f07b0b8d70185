package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/finance"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var ErrMeterNil = errors.New("meter cannot be nil")

// ShopMetrics records storefront activity. It subscribes to domain events,
// so instrumented code paths stay free of metric calls.
type ShopMetrics struct {
	ordersPlaced    metric.Int64Counter
	orderRevenue    metric.Float64Counter
	orderValue      metric.Float64Histogram
	ordersCancelled metric.Int64Counter
	payments        metric.Int64Counter
	stockLow        metric.Int64Counter
	stockAdjusted   metric.Int64Counter
}

func NewShopMetrics(meter metric.Meter) (*ShopMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &ShopMetrics{}
	var errs []error
	add := func(err error) { errs = append(errs, err) }

	var err error
	m.ordersPlaced, err = meter.Int64Counter("shop_orders_placed_total",
		metric.WithDescription("Orders placed through checkout"), metric.WithUnit("{orders}"))
	add(err)
	m.orderRevenue, err = meter.Float64Counter("shop_order_revenue_total",
		metric.WithDescription("Sum of placed order totals"), metric.WithUnit("{currency}"))
	add(err)
	m.orderValue, err = meter.Float64Histogram("shop_order_value",
		metric.WithDescription("Distribution of order totals"), metric.WithUnit("{currency}"),
		metric.WithExplicitBucketBoundaries(10, 25, 50, 100, 250, 500, 1000, 5000))
	add(err)
	m.ordersCancelled, err = meter.Int64Counter("shop_orders_cancelled_total",
		metric.WithDescription("Cancelled orders"), metric.WithUnit("{orders}"))
	add(err)
	m.payments, err = meter.Int64Counter("shop_payments_completed_total",
		metric.WithDescription("Completed payments"), metric.WithUnit("{payments}"))
	add(err)
	m.stockLow, err = meter.Int64Counter("shop_stock_low_total",
		metric.WithDescription("Low-stock alerts raised"), metric.WithUnit("{alerts}"))
	add(err)
	m.stockAdjusted, err = meter.Int64Counter("shop_stock_adjustments_total",
		metric.WithDescription("Manual warehouse stock adjustments"), metric.WithUnit("{movements}"))
	add(err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to create shop metrics: %w", err)
	}
	return m, nil
}

func (m *ShopMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderCancelled,
		finance.EventTypePaymentCompleted,
		catalog.EventTypeStockLow,
		inventory.EventTypeStockAdjusted,
	}
}

// Handle implements shared.EventHandler
func (m *ShopMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := attribute.String("tenant_id", event.TenantID().String())

	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		attrs := metric.WithAttributes(tenant, attribute.String("currency", e.Currency))
		total := e.Total.InexactFloat64()
		m.ordersPlaced.Add(ctx, 1, attrs)
		m.orderRevenue.Add(ctx, total, attrs)
		m.orderValue.Record(ctx, total, attrs)
	case *trade.OrderCancelledEvent:
		m.ordersCancelled.Add(ctx, 1, metric.WithAttributes(tenant))
	case *finance.PaymentCompletedEvent:
		m.payments.Add(ctx, 1, metric.WithAttributes(tenant, attribute.String("method", string(e.Method))))
	case *catalog.StockLowEvent:
		m.stockLow.Add(ctx, 1, metric.WithAttributes(tenant))
	case *inventory.StockAdjustedEvent:
		m.stockAdjusted.Add(ctx, 1, metric.WithAttributes(tenant, attribute.String("type", string(e.Type))))
	}
	return nil
}

var _ shared.EventHandler = (*ShopMetrics)(nil)
