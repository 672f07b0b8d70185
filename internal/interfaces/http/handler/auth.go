package handler

import (
	"github.com/anu-devcode/deploy-test-sub002/internal/application/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
// @ID           registerAuth
// @Summary      Register a tenant
// @Description  Create a tenant with its first admin user and sign the admin in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterInput true "Tenant and admin credentials"
// @Success      201 {object} APIResponse[identity.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterInput
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Login godoc
// @ID           loginAuth
// @Summary      User login
// @Description  Authenticate a user of the tenant named by X-Tenant-ID, or of the default tenant
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body identity.LoginInput true "Login credentials"
// @Success      200 {object} APIResponse[identity.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req identity.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}
	req.TenantID = tenantID

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh godoc
// @ID           refreshAuth
// @Summary      Refresh access token
// @Description  Exchange a refresh token for a new token pair. The old refresh token is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshTokenInput true "Refresh token"
// @Success      200 {object} APIResponse[identity.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshTokenInput
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @ID           logoutAuth
// @Summary      User logout
// @Description  Revoke the presented access token and, when given, the refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LogoutInput false "Refresh token to revoke"
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identity.LogoutInput
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	req.AccessTokenID = claims.ID
	req.AccessTokenTTL = claims.RemainingTTL()

	if err := h.authService.Logout(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @ID           meAuth
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.UserInfo]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.Me(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
