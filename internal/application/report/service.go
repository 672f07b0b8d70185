package report

import (
	"context"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/report"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	defaultPeriodDays = 30
	maxPeriodDays     = 366
	defaultTopLimit   = 10
)

var ErrInvalidPeriod = shared.NewDomainError("INVALID_PERIOD", "Report period must end on or after its start and span at most 366 days")

// SalesFilter selects a range of whole UTC days, both ends inclusive.
// Without dates the last 30 days up to today are used.
type SalesFilter struct {
	From  *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To    *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	Limit int        `form:"limit" binding:"omitempty,min=1,max=50"`
}

// SalesService answers sales report queries
type SalesService struct {
	repo report.SalesReportRepository
	now  func() time.Time
}

func NewSalesService(repo report.SalesReportRepository) *SalesService {
	return &SalesService{repo: repo, now: time.Now}
}

func (s *SalesService) Summary(ctx context.Context, tenantID uuid.UUID, filter SalesFilter) (*report.SalesSummary, error) {
	period, err := s.period(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, tenantID, period)
}

// Daily returns one entry per day of the period, including days without sales
func (s *SalesService) Daily(ctx context.Context, tenantID uuid.UUID, filter SalesFilter) ([]report.DailySales, error) {
	period, err := s.period(filter)
	if err != nil {
		return nil, err
	}
	days, err := s.repo.Daily(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	return report.FillDays(period, days), nil
}

func (s *SalesService) TopProducts(ctx context.Context, tenantID uuid.UUID, filter SalesFilter) ([]report.ProductSales, error) {
	period, err := s.period(filter)
	if err != nil {
		return nil, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTopLimit
	}
	return s.repo.TopProducts(ctx, tenantID, period, limit)
}

func (s *SalesService) period(filter SalesFilter) (report.Period, error) {
	today := truncateDay(s.now())
	to := today
	if filter.To != nil {
		to = truncateDay(*filter.To)
	}
	from := to.AddDate(0, 0, 1-defaultPeriodDays)
	if filter.From != nil {
		from = truncateDay(*filter.From)
	}

	period := report.Period{From: from, To: to.AddDate(0, 0, 1)}
	if days := period.Days(); days < 1 || days > maxPeriodDays {
		return report.Period{}, ErrInvalidPeriod
	}
	return period, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
