package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/auth"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var defaultTenant = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func tenantRouter(claimTenant string) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if claimTenant != "" {
			c.Set(JWTTenantIDKey, claimTenant)
		}
		c.Next()
	}, TenantMiddleware(TenantMiddlewareConfig{DefaultTenantID: defaultTenant}))
	router.GET("/test", func(c *gin.Context) {
		id, ok := GetTenantID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return router
}

func TestTenantMiddleware_Resolution(t *testing.T) {
	claim := uuid.New()
	header := uuid.New()

	tests := []struct {
		name   string
		claim  string
		header string
		want   uuid.UUID
	}{
		{"claim wins over header", claim.String(), header.String(), claim},
		{"header when no claim", "", header.String(), header},
		{"default otherwise", "", "", defaultTenant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(TenantHeaderKey, tt.header)
			}
			w := serve(tenantRouter(tt.claim), req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want.String(), w.Body.String())
		})
	}
}

func TestTenantMiddleware_InvalidHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(TenantHeaderKey, "not-a-uuid")
	w := serve(tenantRouter(""), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, errorCode(t, w))
}

func TestTenantMiddleware_NoDefault(t *testing.T) {
	router := gin.New()
	router.Use(TenantMiddleware(TenantMiddlewareConfig{}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireRole(t *testing.T) {
	build := func(role string, withClaims bool) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if withClaims {
				c.Set(JWTClaimsKey, &auth.Claims{Role: role})
			}
			c.Next()
		}, RequireRole("admin"))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	assert.Equal(t, http.StatusOK, serve(build("admin", true), httptest.NewRequest(http.MethodGet, "/test", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(build("staff", true), httptest.NewRequest(http.MethodGet, "/test", nil)).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(build("", false), httptest.NewRequest(http.MethodGet, "/test", nil)).Code)
}
