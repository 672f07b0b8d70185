package handler

import (
	"github.com/anu-devcode/deploy-test-sub002/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// TenantHandler exposes the caller's own tenant
type TenantHandler struct {
	BaseHandler
	tenantService *identity.TenantService
}

func NewTenantHandler(tenantService *identity.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// GetCurrent godoc
// @ID           getCurrentTenant
// @Summary      Current tenant
// @Tags         tenants
// @Produce      json
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/current [get]
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	tenant, err := h.tenantService.GetCurrent(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// UpdateCurrent godoc
// @ID           updateCurrentTenant
// @Summary      Update current tenant
// @Description  Change the profile of the caller's tenant (admin only)
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateTenantInput true "Tenant profile"
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/current [put]
func (h *TenantHandler) UpdateCurrent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req identity.UpdateTenantInput
	if !h.bindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.UpdateCurrent(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}
