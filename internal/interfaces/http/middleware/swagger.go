package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls access to the API documentation
type SwaggerConfig struct {
	Enabled bool
	// AllowedIPs accepts single addresses and CIDR ranges; empty admits everyone
	AllowedIPs []string
}

// SwaggerProtection hides the docs when disabled and enforces the IP allow list
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	var nets []*net.IPNet
	var ips []net.IP
	for _, entry := range cfg.AllowedIPs {
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				nets = append(nets, network)
			}
		} else if ip := net.ParseIP(entry); ip != nil {
			ips = append(ips, ip)
		}
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "API documentation is not available", c.GetString(RequestIDKey)))
			return
		}
		if len(cfg.AllowedIPs) > 0 && !ipAllowed(net.ParseIP(c.ClientIP()), ips, nets) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Access to API documentation is restricted", c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}

func ipAllowed(ip net.IP, ips []net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
