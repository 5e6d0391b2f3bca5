package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler { return &HealthHandler{db: db} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/health
func (h *HealthHandler) APIHealth(c *gin.Context) {
	status, health, dbStatus := http.StatusOK, "healthy", "connected"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db(ctx); err != nil {
			status, health, dbStatus = http.StatusServiceUnavailable, "degraded", "unreachable"
		}
	}
	c.JSON(status, gin.H{
		"status":    health,
		"database":  dbStatus,
		"timestamp": time.Now().UTC(),
	})
}
