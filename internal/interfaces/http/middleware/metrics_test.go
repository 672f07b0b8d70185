package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(t.Context()) })

	mw, err := HTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)

	router := gin.New()
	router.Use(mw)
	router.GET("/products/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	serve(router, httptest.NewRequest(http.MethodGet, "/products/1", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/products/2", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_server_request_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			assert.Equal(t, int64(2), sum.DataPoints[0].Value)
			route, _ := sum.DataPoints[0].Attributes.Value("route")
			assert.Equal(t, "/products/:id", route.AsString())
			found = true
		}
	}
	assert.True(t, found)
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	mw, err := HTTPMetrics(nil)
	require.NoError(t, err)
	w := serve(newTestRouter(mw), httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
