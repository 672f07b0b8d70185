package handler

import (
	financeapp "github.com/anu-devcode/deploy-test-sub002/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *financeapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *financeapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List godoc
// @ID           listPayments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        status query string false "Status" Enums(pending, completed, failed, refunded)
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        method query string false "Payment method" Enums(card, bank_transfer, cash, wallet)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]financeapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.PaymentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payments, total, filter.ListQuery)
}

// Create godoc
// @ID           createPayment
// @Summary      Record a pending payment for an order
// @Description  The amount must equal the order total
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreatePaymentRequest true "Payment"
// @Success      201 {object} APIResponse[financeapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = currentUser(c)

	payment, err := h.paymentService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// GetByID godoc
// @ID           getPaymentById
// @Summary      Get payment by ID
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), tenantID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Complete godoc
// @ID           completePayment
// @Summary      Complete a pending payment
// @Description  Marks the order as paid. An order accepts one completed payment.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body financeapp.CompletePaymentRequest false "Provider reference"
// @Success      200 {object} APIResponse[financeapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id}/complete [post]
func (h *PaymentHandler) Complete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.CompletePaymentRequest
	if c.Request.ContentLength != 0 {
		if !h.bindJSON(c, &req) {
			return
		}
	}

	payment, err := h.paymentService.Complete(c.Request.Context(), tenantID, paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Fail godoc
// @ID           failPayment
// @Summary      Mark a pending payment as failed
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body financeapp.FailPaymentRequest true "Failure reason"
// @Success      200 {object} APIResponse[financeapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id}/fail [post]
func (h *PaymentHandler) Fail(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.FailPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Fail(c.Request.Context(), tenantID, paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Refund godoc
// @ID           refundPayment
// @Summary      Refund a completed payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.paymentService.Refund)
}
