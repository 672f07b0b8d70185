package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type httpMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	responseSize    metric.Int64Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	m := &httpMetrics{}
	var errs []error
	var err error

	m.requestTotal, err = meter.Int64Counter("http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"), metric.WithUnit("{request}"))
	errs = append(errs, err)
	m.requestDuration, err = meter.Float64Histogram("http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency in seconds"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(httpDurationBuckets...))
	errs = append(errs, err)
	m.responseSize, err = meter.Int64Histogram("http_server_response_size_bytes",
		metric.WithDescription("HTTP response body size in bytes"), metric.WithUnit("By"))
	errs = append(errs, err)
	m.activeRequests, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Requests currently being served"), metric.WithUnit("{request}"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to create http metrics: %w", err)
	}
	return m, nil
}

// HTTPMetrics records request count, latency, response size and in-flight
// requests labelled by route pattern. A nil meter disables it.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	if meter == nil {
		return func(c *gin.Context) { c.Next() }, nil
	}
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		method := attribute.String("method", c.Request.Method)

		m.activeRequests.Add(ctx, 1, metric.WithAttributes(method))
		defer m.activeRequests.Add(ctx, -1, metric.WithAttributes(method))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			method,
			attribute.String("route", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		m.requestTotal.Add(ctx, 1, attrs)
		m.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		if size := c.Writer.Size(); size > 0 {
			m.responseSize.Record(ctx, int64(size), attrs)
		}
	}, nil
}
