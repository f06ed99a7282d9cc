package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/azampay/momo-checkout/internal/shared/logger"
	"github.com/azampay/momo-checkout/internal/shared/utils"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker pings one backing dependency.
type HealthChecker func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthChecker
	logger logger.Interface
}

func NewHealthHandler(checks map[string]HealthChecker, logger logger.Interface) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

// Health handles GET /healthz. Any failing dependency turns the reply into a 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warnw("health check failed", "dependency", name, "error", err)
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, utils.APIResponse{
			Success: false,
			Data:    status,
			Error:   &utils.ErrorInfo{Type: "unavailable", Message: "dependency unavailable"},
		})
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ok", status)
}
