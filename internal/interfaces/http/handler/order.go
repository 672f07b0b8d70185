package handler

import (
	tradeapp "github.com/anu-devcode/deploy-test-sub002/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order endpoints. Orders are created by cart checkout.
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        search query string false "Matches order number"
// @Param        status query string false "Status" Enums(pending, paid, shipped, delivered, cancelled)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(order_number, total, status, created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.ListQuery)
}

// GetByID godoc
// @ID           getOrderById
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Ship godoc
// @ID           shipOrder
// @Summary      Mark a paid order as shipped
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.orderService.Ship)
}

// Deliver godoc
// @ID           deliverOrder
// @Summary      Mark a shipped order as delivered
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.orderService.Deliver)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Only pending or paid orders can be cancelled. Reserved stock is returned.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.CancelOrderRequest false "Cancellation reason"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.CancelOrderRequest
	if c.Request.ContentLength != 0 {
		if !h.bindJSON(c, &req) {
			return
		}
	}

	order, err := h.orderService.Cancel(c.Request.Context(), tenantID, orderID, req, currentUser(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
