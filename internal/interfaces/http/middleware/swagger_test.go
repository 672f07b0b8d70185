package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SwaggerConfig
		remoteAddr string
		want       int
	}{
		{"disabled", SwaggerConfig{Enabled: false}, "10.0.0.1:1234", http.StatusNotFound},
		{"open", SwaggerConfig{Enabled: true}, "10.0.0.1:1234", http.StatusOK},
		{"exact ip", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, "10.0.0.1:1234", http.StatusOK},
		{"cidr", SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, "192.168.4.2:1234", http.StatusOK},
		{"outside list", SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16", "bogus"}}, "10.0.0.1:1234", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			w := serve(newTestRouter(SwaggerProtection(tt.cfg)), req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
