package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler provides liveness and readiness endpoints.
//
// dbPing is nil when the price cache is disabled; readiness then depends on
// nothing but the process being up.
type HealthHandler struct {
	dbPing  func(ctx context.Context) error
	timeout time.Duration
}

func NewHealthHandler(dbPing func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{dbPing: dbPing, timeout: 2 * time.Second}
}

// Register mounts GET /healthz and GET /readyz on r.
func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// Liveness godoc
// @Summary      Liveness probe
// @Description  Always returns OK if the service is running
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Returns ready when the price cache database (if enabled) is reachable
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.dbPing == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "cache": "disabled"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	if err := h.dbPing(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "cache": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "cache": "ok"})
}
