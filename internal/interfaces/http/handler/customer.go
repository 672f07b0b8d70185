package handler

import (
	partnerapp "github.com/anu-devcode/deploy-test-sub002/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a new customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateCustomerRequest true "Customer creation request"
// @Success      201 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = currentUser(c)

	customer, err := h.customerService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Page through customers with search and status filter
// @Tags         customers
// @Produce      json
// @Param        search query string false "Matches email, first or last name"
// @Param        status query string false "Status" Enums(active, inactive)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(email, first_name, last_name, created_at, updated_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter partnerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, filter.ListQuery)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.UpdateCustomerRequest true "Fields to change"
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), tenantID, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), tenantID, customerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @ID           activateCustomer
// @Summary      Activate a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/activate [post]
func (h *CustomerHandler) Activate(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.customerService.Activate)
}

// Deactivate godoc
// @ID           deactivateCustomer
// @Summary      Deactivate a customer
// @Description  Inactive customers cannot check out
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/deactivate [post]
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.customerService.Deactivate)
}
