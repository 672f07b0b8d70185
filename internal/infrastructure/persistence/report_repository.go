package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSalesReportRepository computes sales read models straight from the
// orders tables. The SQL sticks to functions Postgres and SQLite share.
type GormSalesReportRepository struct {
	db *gorm.DB
}

func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

const salesOrders = `
FROM orders o
LEFT JOIN (
	SELECT order_id, SUM(quantity) AS qty FROM order_items WHERE tenant_id = @tenant GROUP BY order_id
) i ON i.order_id = o.id
WHERE o.tenant_id = @tenant AND o.status <> 'cancelled'
AND o.created_at >= @from AND o.created_at < @to`

func periodArgs(tenantID uuid.UUID, period report.Period) map[string]any {
	return map[string]any{"tenant": tenantID, "from": period.From, "to": period.To}
}

func (r *GormSalesReportRepository) Summary(ctx context.Context, tenantID uuid.UUID, period report.Period) (*report.SalesSummary, error) {
	var row struct {
		OrderCount int64
		ItemsSold  int64
		Subtotal   decimal.NullDecimal
		Discount   decimal.NullDecimal
		Tax        decimal.NullDecimal
		Total      decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Raw(`
SELECT COUNT(*) AS order_count, COALESCE(SUM(i.qty), 0) AS items_sold,
	SUM(o.subtotal) AS subtotal, SUM(o.discount) AS discount, SUM(o.tax) AS tax, SUM(o.total) AS total`+salesOrders,
		periodArgs(tenantID, period)).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	summary := &report.SalesSummary{
		From:         period.From,
		To:           period.To,
		OrderCount:   row.OrderCount,
		ItemsSold:    row.ItemsSold,
		Subtotal:     money(row.Subtotal),
		Discount:     money(row.Discount),
		Tax:          money(row.Tax),
		Total:        money(row.Total),
		AverageOrder: decimal.Zero,
	}
	if row.OrderCount > 0 {
		summary.AverageOrder = summary.Total.Div(decimal.NewFromInt(row.OrderCount)).Round(2)
	}
	return summary, nil
}

func (r *GormSalesReportRepository) Daily(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.DailySales, error) {
	var rows []struct {
		Day        string
		OrderCount int64
		ItemsSold  int64
		Total      decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Raw(`
SELECT CAST(DATE(o.created_at) AS TEXT) AS day, COUNT(*) AS order_count,
	COALESCE(SUM(i.qty), 0) AS items_sold, SUM(o.total) AS total`+salesOrders+`
GROUP BY DATE(o.created_at)
ORDER BY day`, periodArgs(tenantID, period)).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}

	days := make([]report.DailySales, 0, len(rows))
	for _, row := range rows {
		if len(row.Day) < len(time.DateOnly) {
			return nil, fmt.Errorf("daily sales: unexpected day %q", row.Day)
		}
		day, err := time.Parse(time.DateOnly, row.Day[:len(time.DateOnly)])
		if err != nil {
			return nil, fmt.Errorf("daily sales: %w", err)
		}
		days = append(days, report.DailySales{
			Date:       day,
			OrderCount: row.OrderCount,
			ItemsSold:  row.ItemsSold,
			Total:      money(row.Total),
		})
	}
	return days, nil
}

func (r *GormSalesReportRepository) TopProducts(ctx context.Context, tenantID uuid.UUID, period report.Period, limit int) ([]report.ProductSales, error) {
	var rows []struct {
		ProductID  uuid.UUID
		SKU        string `gorm:"column:sku"`
		Name       string
		Quantity   int64
		Revenue    decimal.NullDecimal
		OrderCount int64
	}
	args := periodArgs(tenantID, period)
	args["limit"] = limit
	err := r.db.WithContext(ctx).Raw(`
SELECT oi.product_id AS product_id, MAX(oi.sku) AS sku, MAX(oi.name) AS name,
	SUM(oi.quantity) AS quantity, SUM(oi.line_total) AS revenue, COUNT(DISTINCT oi.order_id) AS order_count
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE o.tenant_id = @tenant AND o.status <> 'cancelled'
AND o.created_at >= @from AND o.created_at < @to
GROUP BY oi.product_id
ORDER BY revenue DESC, quantity DESC
LIMIT @limit`, args).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	ranking := make([]report.ProductSales, len(rows))
	for i, row := range rows {
		ranking[i] = report.ProductSales{
			Rank:       i + 1,
			ProductID:  row.ProductID,
			SKU:        row.SKU,
			Name:       row.Name,
			Quantity:   row.Quantity,
			Revenue:    money(row.Revenue),
			OrderCount: row.OrderCount,
		}
	}
	return ranking, nil
}

// money turns a SUM over no rows into zero and drops float noise from SQLite
func money(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal.Round(2)
}
