package handler

import (
	reportapp "github.com/anu-devcode/deploy-test-sub002/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves sales reports computed from non-cancelled orders
type ReportHandler struct {
	BaseHandler
	salesService *reportapp.SalesService
}

func NewReportHandler(salesService *reportapp.SalesService) *ReportHandler {
	return &ReportHandler{salesService: salesService}
}

// SalesSummary godoc
// @ID           getSalesSummary
// @Summary      Sales totals for a period
// @Description  Dates are UTC days, both inclusive. Defaults to the last 30 days.
// @Tags         reports
// @Produce      json
// @Param        from query string false "First day" format(date)
// @Param        to query string false "Last day" format(date)
// @Success      200 {object} APIResponse[report.SalesSummary]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales/summary [get]
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter reportapp.SalesFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	summary, err := h.salesService.Summary(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// DailySales godoc
// @ID           getDailySales
// @Summary      Sales per day
// @Tags         reports
// @Produce      json
// @Param        from query string false "First day" format(date)
// @Param        to query string false "Last day" format(date)
// @Success      200 {object} APIResponse[[]report.DailySales]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales/daily [get]
func (h *ReportHandler) DailySales(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter reportapp.SalesFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	days, err := h.salesService.Daily(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, days)
}

// TopProducts godoc
// @ID           getTopProducts
// @Summary      Best selling products by revenue
// @Tags         reports
// @Produce      json
// @Param        from query string false "First day" format(date)
// @Param        to query string false "Last day" format(date)
// @Param        limit query int false "Number of products" default(10) maximum(50)
// @Success      200 {object} APIResponse[[]report.ProductSales]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter reportapp.SalesFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, err := h.salesService.TopProducts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}
