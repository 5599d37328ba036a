package handlers

import (
	"time"

	"bmc-rentportal/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Check returns service health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "bmc-rentportal",
		"mode":    config.AppConfig.AppMode,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}
