package middleware

import (
	"context"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling labels the request's CPU and allocation samples with the route,
// method, resource and tenant. Place it after the tenant middleware.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := map[string]string{
			telemetry.ProfilingLabelRoute:    route,
			telemetry.ProfilingLabelMethod:   c.Request.Method,
			telemetry.ProfilingLabelResource: resourceFromRoute(route),
			telemetry.ProfilingLabelTenantID: c.GetString(TenantIDKey),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first static segment after the api prefix:
// "/api/v1/products/:id" -> "products"
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
