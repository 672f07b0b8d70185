package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/logger"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// SystemHandler serves ping, health and build information
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
}

// NewSystemHandler creates a new SystemHandler. checks are keyed by the
// dependency name reported in the health response.
func NewSystemHandler(name, version string, checks map[string]HealthCheck) *SystemHandler {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		checks:    checks,
	}
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"shop-backend"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Security     BearerAuth
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthResponse reports the state of each dependency
// @name HandlerHealthResponse
type HealthResponse struct {
	Status       string            `json:"status" example:"healthy"`
	Time         string            `json:"time" example:"2026-01-23T12:00:00Z"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health godoc
// @ID           healthSystem
// @Summary      Check service health
// @Description  Probes the database and, when configured, Redis. Returns 503 if any probe fails.
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:       "healthy",
		Time:         time.Now().UTC().Format(time.RFC3339),
		Dependencies: make(map[string]string, len(names)),
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.L(ctx).Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Dependencies[name] = "error"
			resp.Status = "unhealthy"
			continue
		}
		resp.Dependencies[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
