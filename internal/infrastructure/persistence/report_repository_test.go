package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/report"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type salesLine struct {
	productID uuid.UUID
	sku       string
	price     string
	qty       int
}

func seedOrder(t *testing.T, repo *GormOrderRepository, tenantID uuid.UUID, at time.Time, cancelled bool, lines ...salesLine) {
	t.Helper()
	order, err := trade.NewOrder(tenantID, uuid.New(), "USD")
	require.NoError(t, err)
	for _, l := range lines {
		require.NoError(t, order.AddLine(l.productID, l.sku, l.sku+" item", decimal.RequireFromString(l.price), l.qty))
	}
	order.CreatedAt = at
	if cancelled {
		require.NoError(t, order.Cancel("test"))
	}
	require.NoError(t, repo.Create(context.Background(), order))
}

func TestGormSalesReportRepository(t *testing.T) {
	db := setupTestDB(t)
	orders := NewGormOrderRepository(db)
	repo := NewGormSalesReportRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	mug := salesLine{productID: uuid.New(), sku: "MUG", price: "4.25"}
	hat := salesLine{productID: uuid.New(), sku: "HAT", price: "20"}
	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	withQty := func(l salesLine, qty int) salesLine { l.qty = qty; return l }
	seedOrder(t, orders, tenantID, day1, false, withQty(mug, 2), withQty(hat, 1))
	seedOrder(t, orders, tenantID, day2, false, withQty(hat, 3))
	seedOrder(t, orders, tenantID, day2, true, withQty(mug, 10))
	seedOrder(t, orders, tenantID, day1.AddDate(0, 0, -5), false, withQty(mug, 1))
	seedOrder(t, orders, uuid.New(), day1, false, withQty(hat, 7))

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	period := report.Period{From: from, To: from.AddDate(0, 0, 3)}

	t.Run("summary skips cancelled and foreign orders", func(t *testing.T) {
		summary, err := repo.Summary(ctx, tenantID, period)
		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.OrderCount)
		assert.Equal(t, int64(6), summary.ItemsSold)
		assert.True(t, decimal.RequireFromString("88.50").Equal(summary.Total), summary.Total.String())
		assert.True(t, decimal.RequireFromString("44.25").Equal(summary.AverageOrder), summary.AverageOrder.String())
	})

	t.Run("summary of an empty period", func(t *testing.T) {
		summary, err := repo.Summary(ctx, tenantID, report.Period{From: from.AddDate(1, 0, 0), To: from.AddDate(1, 0, 1)})
		require.NoError(t, err)
		assert.Zero(t, summary.OrderCount)
		assert.True(t, summary.Total.IsZero())
		assert.True(t, summary.AverageOrder.IsZero())
	})

	t.Run("daily totals", func(t *testing.T) {
		days, err := repo.Daily(ctx, tenantID, period)
		require.NoError(t, err)
		require.Len(t, days, 2)
		assert.Equal(t, from, days[0].Date)
		assert.Equal(t, int64(3), days[0].ItemsSold)
		assert.True(t, decimal.RequireFromString("28.50").Equal(days[0].Total), days[0].Total.String())
		assert.Equal(t, from.AddDate(0, 0, 1), days[1].Date)
		assert.True(t, decimal.NewFromInt(60).Equal(days[1].Total), days[1].Total.String())
	})

	t.Run("top products by revenue", func(t *testing.T) {
		top, err := repo.TopProducts(ctx, tenantID, period, 1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, 1, top[0].Rank)
		assert.Equal(t, hat.productID, top[0].ProductID)
		assert.Equal(t, "HAT", top[0].SKU)
		assert.Equal(t, int64(4), top[0].Quantity)
		assert.Equal(t, int64(2), top[0].OrderCount)
		assert.True(t, decimal.NewFromInt(80).Equal(top[0].Revenue), top[0].Revenue.String())
	})
}
