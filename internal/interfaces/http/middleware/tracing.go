// Package middleware provides the gin middleware chain of the shop API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds request ids taken from headers
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPaths are not traced (health probes)
	SkipPaths []string
}

// Tracing wraps otelgin. Spans are named after the route pattern.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	return otelgin.Middleware(cfg.ServiceName, otelgin.WithFilter(func(r *http.Request) bool {
		_, skipped := skip[r.URL.Path]
		return !skipped
	}))
}

// TracingAttributeInjector tags the active span with request, tenant and
// user ids. Place it after the JWT and tenant middleware. Responses with
// status >= 400 mark the span as failed.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		attrs := make([]attribute.KeyValue, 0, 3)
		if id := c.GetString(RequestIDKey); id != "" {
			attrs = append(attrs, attribute.String("request_id", id))
		}
		if id := c.GetString(TenantIDKey); id != "" {
			attrs = append(attrs, attribute.String("tenant_id", id))
		}
		if id := GetJWTUserID(c); id != "" {
			attrs = append(attrs, attribute.String("user_id", id))
		}
		span.SetAttributes(attrs...)

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			if len(c.Errors) > 0 {
				span.SetAttributes(attribute.String("error.detail", c.Errors.String()))
			}
		}
	}
}
