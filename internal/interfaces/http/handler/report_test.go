package handler

import (
	"net/http"
	"testing"

	reportapp "github.com/anu-devcode/deploy-test-sub002/internal/application/report"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/report"
	"github.com/anu-devcode/deploy-test-sub002/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReportRouter() (*gin.Engine, *testutil.MockSalesReportRepository) {
	repo := new(testutil.MockSalesReportRepository)
	h := NewReportHandler(reportapp.NewSalesService(repo))

	router := setupTestRouter()
	router.GET("/reports/sales/summary", h.SalesSummary)
	router.GET("/reports/sales/daily", h.DailySales)
	router.GET("/reports/sales/top-products", h.TopProducts)
	return router, repo
}

func TestReportHandler_SalesSummary(t *testing.T) {
	router, repo := newReportRouter()
	repo.On("Summary", mock.Anything, testutil.TestTenantID(), mock.MatchedBy(func(p report.Period) bool {
		return p.From.Format("2006-01-02") == "2026-02-01" && p.To.Format("2006-01-02") == "2026-03-01"
	})).Return(&report.SalesSummary{OrderCount: 4, Total: testutil.Money(t, "120.50")}, nil)

	tc := testutil.PerformRequest(t, router, http.MethodGet, "/reports/sales/summary?from=2026-02-01&to=2026-02-28", nil, nil)
	require.Equal(t, http.StatusOK, tc.Recorder.Code, tc.Recorder.Body.String())

	resp := testutil.JSONResponseAs[struct {
		Data report.SalesSummary `json:"data"`
	}](t, tc)
	assert.Equal(t, int64(4), resp.Data.OrderCount)
	assert.Equal(t, "120.5", resp.Data.Total.String())
}

func TestReportHandler_RejectsInvalidPeriod(t *testing.T) {
	router, repo := newReportRouter()

	tc := testutil.PerformRequest(t, router, http.MethodGet, "/reports/sales/daily?from=2026-03-10&to=2026-03-01", nil, nil)
	assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
	assert.Contains(t, tc.Recorder.Body.String(), "ERR_INVALID_PERIOD")

	tc = testutil.PerformRequest(t, router, http.MethodGet, "/reports/sales/daily?from=yesterday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
	repo.AssertNotCalled(t, "Daily", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportHandler_TopProducts(t *testing.T) {
	router, repo := newReportRouter()
	repo.On("TopProducts", mock.Anything, testutil.TestTenantID(), mock.Anything, 3).
		Return([]report.ProductSales{{Rank: 1, SKU: "HAT", Quantity: 4}}, nil)

	tc := testutil.PerformRequest(t, router, http.MethodGet, "/reports/sales/top-products?limit=3", nil, nil)
	require.Equal(t, http.StatusOK, tc.Recorder.Code, tc.Recorder.Body.String())
	assert.Contains(t, tc.Recorder.Body.String(), `"sku":"HAT"`)

	tc = testutil.PerformRequest(t, router, http.MethodGet, "/reports/sales/top-products?limit=500", nil, nil)
	assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
}
