package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck pings the backing store of one service.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	service string
	check   HealthCheck
}

func NewHealthHandler(service string, check HealthCheck) *HealthHandler {
	return &HealthHandler{service: service, check: check}
}

func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.check(ctx); err != nil {
		log.Printf("health check for %s failed: %v", h.service, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.service})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}
