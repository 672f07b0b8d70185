package handler

import (
	automationapp "github.com/anu-devcode/deploy-test-sub002/internal/application/automation"
	"github.com/gin-gonic/gin"
)

// AutomationHandler handles automation rule endpoints. Mutations require the admin role.
type AutomationHandler struct {
	BaseHandler
	ruleService *automationapp.RuleService
}

func NewAutomationHandler(ruleService *automationapp.RuleService) *AutomationHandler {
	return &AutomationHandler{ruleService: ruleService}
}

// List godoc
// @ID           listAutomationRules
// @Summary      List automation rules
// @Tags         automation
// @Produce      json
// @Param        search query string false "Matches rule name"
// @Param        trigger query string false "Trigger" Enums(order.placed, stock.low, payment.completed, review.created)
// @Param        enabled query bool false "Enabled flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]automationapp.RuleResponse]
// @Security     BearerAuth
// @Router       /automation-rules [get]
func (h *AutomationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter automationapp.RuleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	rules, total, err := h.ruleService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rules, total, filter.ListQuery)
}

// Create godoc
// @ID           createAutomationRule
// @Summary      Create an automation rule
// @Description  Rules fire when their trigger event's value reaches the threshold.
// @Description  The queue action pushes the event onto automation:<action_target>.
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        request body automationapp.RuleRequest true "Rule"
// @Success      201 {object} APIResponse[automationapp.RuleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /automation-rules [post]
func (h *AutomationHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req automationapp.RuleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = currentUser(c)

	rule, err := h.ruleService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rule)
}

// GetByID godoc
// @ID           getAutomationRuleById
// @Summary      Get automation rule by ID
// @Tags         automation
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[automationapp.RuleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /automation-rules/{id} [get]
func (h *AutomationHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	ruleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	rule, err := h.ruleService.GetByID(c.Request.Context(), tenantID, ruleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// Update godoc
// @ID           updateAutomationRule
// @Summary      Replace an automation rule
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Param        request body automationapp.RuleRequest true "Rule"
// @Success      200 {object} APIResponse[automationapp.RuleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /automation-rules/{id} [put]
func (h *AutomationHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	ruleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req automationapp.RuleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rule, err := h.ruleService.Update(c.Request.Context(), tenantID, ruleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// Delete godoc
// @ID           deleteAutomationRule
// @Summary      Delete an automation rule
// @Tags         automation
// @Param        id path string true "Rule ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /automation-rules/{id} [delete]
func (h *AutomationHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	ruleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.ruleService.Delete(c.Request.Context(), tenantID, ruleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Enable godoc
// @ID           enableAutomationRule
// @Summary      Enable an automation rule
// @Tags         automation
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[automationapp.RuleResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /automation-rules/{id}/enable [post]
func (h *AutomationHandler) Enable(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.ruleService.Enable)
}

// Disable godoc
// @ID           disableAutomationRule
// @Summary      Disable an automation rule
// @Tags         automation
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[automationapp.RuleResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /automation-rules/{id}/disable [post]
func (h *AutomationHandler) Disable(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.ruleService.Disable)
}
