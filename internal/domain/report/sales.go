// Package report holds read models computed from orders. Cancelled orders
// never count towards sales.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is the half-open interval [From, To)
type Period struct {
	From time.Time
	To   time.Time
}

// Days is the number of calendar days the period spans
func (p Period) Days() int {
	return int(p.To.Sub(p.From).Hours() / 24)
}

type SalesSummary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	OrderCount   int64           `json:"order_count"`
	ItemsSold    int64           `json:"items_sold"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	AverageOrder decimal.Decimal `json:"average_order"`
}

// DailySales is one day of the sales trend. Days without orders are present with zero values.
type DailySales struct {
	Date       time.Time       `json:"date"`
	OrderCount int64           `json:"order_count"`
	ItemsSold  int64           `json:"items_sold"`
	Total      decimal.Decimal `json:"total"`
}

type ProductSales struct {
	Rank       int             `json:"rank"`
	ProductID  uuid.UUID       `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

// SalesReportRepository aggregates orders of one tenant
type SalesReportRepository interface {
	Summary(ctx context.Context, tenantID uuid.UUID, period Period) (*SalesSummary, error)
	Daily(ctx context.Context, tenantID uuid.UUID, period Period) ([]DailySales, error)
	TopProducts(ctx context.Context, tenantID uuid.UUID, period Period, limit int) ([]ProductSales, error)
}

// FillDays returns one entry per day of period, taking totals from days
// and zero values for days without sales.
func FillDays(period Period, days []DailySales) []DailySales {
	byDate := make(map[string]DailySales, len(days))
	for _, d := range days {
		byDate[d.Date.Format(time.DateOnly)] = d
	}
	out := make([]DailySales, 0, period.Days())
	for day := period.From; day.Before(period.To); day = day.AddDate(0, 0, 1) {
		if d, ok := byDate[day.Format(time.DateOnly)]; ok {
			d.Date = day
			out = append(out, d)
			continue
		}
		out = append(out, DailySales{Date: day, Total: decimal.Zero})
	}
	return out
}
