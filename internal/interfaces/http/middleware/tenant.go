package middleware

import (
	"net/http"

	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/logger"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// DefaultTenantID applies when neither the token nor the header names a tenant
	DefaultTenantID uuid.UUID
	Logger          *zap.Logger
}

// TenantMiddleware resolves the tenant of the request.
// Order: JWT tenant_id claim, then the X-Tenant-ID header (only when the
// request carries no claim), then the configured default.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, source, err := resolveTenant(c, cfg.DefaultTenantID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("Rejected tenant", zap.String("source", source), zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInvalidInput, "Invalid tenant ID format", c.GetString(RequestIDKey)))
			return
		}
		if tenantID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Tenant could not be resolved", c.GetString(RequestIDKey)))
			return
		}

		c.Set(TenantIDKey, tenantID.String())
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID.String()))
		c.Next()
	}
}

func resolveTenant(c *gin.Context, fallback uuid.UUID) (uuid.UUID, string, error) {
	if claim := GetJWTTenantID(c); claim != "" {
		id, err := uuid.Parse(claim)
		return id, "jwt", err
	}
	if header := c.GetHeader(TenantHeaderKey); header != "" {
		id, err := uuid.Parse(header)
		return id, "header", err
	}
	return fallback, "default", nil
}

// GetTenantID returns the tenant resolved by TenantMiddleware
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(TenantIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
