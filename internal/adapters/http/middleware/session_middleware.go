package middleware

import (
	"bmc-rentportal/internal/core/domain"
	"bmc-rentportal/internal/core/services"
	"bmc-rentportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireSession rejects requests while no session is authenticated
func RequireSession(sess *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sess.IsAuthenticated() {
			return response.Unauthorized(c, "Login required")
		}
		return c.Next()
	}
}

// RequireRole rejects authenticated sessions holding the wrong role
func RequireRole(sess *services.SessionService, role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sess.IsAuthenticated() {
			return response.Unauthorized(c, "Login required")
		}
		if sess.Role() != role {
			return response.Forbidden(c, "Insufficient permissions")
		}
		return c.Next()
	}
}
