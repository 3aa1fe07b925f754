package http

import (
	"context"
	"net/http"
	"time"

	"mediastore/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type IHealthHandler interface {
	Healthz(c *gin.Context)
	Readyz(c *gin.Context)
}

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) IHealthHandler {
	return &HealthHandler{checks: checks}
}

// Healthz returns OK for health checks
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz pings every dependency and reports the ones that failed.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			logger.GetLogger().WithField("dependency", name).WithField("error", err).Warn("Readiness check failed")
			failed[name] = "unavailable"
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failed": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
