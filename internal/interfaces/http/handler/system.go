package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/programmatrix/backend/internal/interfaces/http/dto"
)

// ReadinessChecker reports whether a backing dependency can serve traffic
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	checkers  map[string]ReadinessChecker
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		checkers:  make(map[string]ReadinessChecker),
	}
}

// AddReadinessChecker registers a named dependency for the readiness probe
func (h *SystemHandler) AddReadinessChecker(name string, checker ReadinessChecker) {
	h.checkers[name] = checker
}

// HealthResponse reports liveness and basic build information
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// ReadyResponse reports per-dependency readiness
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health reports process liveness. It never touches dependencies, so
// a wedged database does not flap the liveness probe.
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status:    "ok",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready pings every registered dependency with a short deadline and
// reports 503 if any of them fails.
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checkers))
	ready := true
	for name, checker := range h.checkers {
		if err := checker.Ping(ctx); err != nil {
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    ReadyResponse{Status: "not ready", Checks: checks},
		})
		return
	}

	h.Success(c, ReadyResponse{Status: "ready", Checks: checks})
}

// RegisterRoutes registers health routes at the engine root
func (h *SystemHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}
