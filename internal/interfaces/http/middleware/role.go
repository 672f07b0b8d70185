package middleware

import (
	"net/http"
	"slices"

	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequireRole admits only authenticated users whose role is one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", c.GetString(RequestIDKey)))
			return
		}
		if !slices.Contains(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Insufficient role for this operation", c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}
