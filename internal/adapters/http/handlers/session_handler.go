package handlers

import (
	"errors"
	"strings"

	"bmc-rentportal/internal/adapters/identity"
	"bmc-rentportal/internal/core/domain"
	"bmc-rentportal/internal/core/services"
	"bmc-rentportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles the session lifecycle endpoints
type SessionHandler struct {
	sessionService *services.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login authenticates against the identity provider and opens a session
// @Summary Login
// @Description Authenticate with the municipal identity provider
// @Tags Session
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /session/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	role := domain.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role != domain.RoleNone && role != domain.RoleTenant && role != domain.RoleAdmin {
		return response.BadRequest(c, "Unknown role")
	}

	ok, err := h.sessionService.Login(c.Context(), req.Email, req.Password, role)
	if err != nil {
		return h.mapLoginError(c, err)
	}
	if !ok {
		// Provider answered 2xx but in none of the known payload shapes
		return response.Error(c, fiber.StatusBadGateway, "Unexpected response from authentication service")
	}

	return response.Success(c, "Login successful", fiber.Map{
		"user":   h.sessionService.CurrentUser(),
		"tenant": h.sessionService.CurrentTenant(),
		"role":   h.sessionService.Role(),
	})
}

// mapLoginError classifies a login failure into the user-facing message
func (h *SessionHandler) mapLoginError(c *fiber.Ctx, err error) error {
	var statusErr *identity.StatusError

	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return response.BadRequest(c, "Please enter a valid email address")
	case errors.Is(err, domain.ErrPasswordTooShort):
		return response.BadRequest(c, "Password must be at least 6 characters")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, domain.ErrProcessing):
		return response.Conflict(c, "A login attempt is already in progress")
	case errors.Is(err, identity.ErrConnectivity):
		return response.ServiceUnavailable(c, "Unable to reach authentication service. Please check your connection.")
	case errors.As(err, &statusErr):
		switch statusErr.StatusCode {
		case fiber.StatusForbidden:
			return response.Forbidden(c, "Access denied. Please contact the municipal office.")
		case fiber.StatusBadRequest:
			msg := statusErr.Message
			if msg == "" {
				msg = "Invalid login request"
			}
			return response.BadRequest(c, msg)
		default:
			return response.InternalServerError(c, "Authentication service error. Please try again later.")
		}
	default:
		return response.InternalServerError(c, "Login failed. Please try again later.")
	}
}

// Logout tears down the session and clears durable storage
// @Summary Logout
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Router /session/logout [post]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.sessionService.Logout(c.Context())
	return response.Success(c, "Logged out", nil)
}

// Current returns the active session state
// @Summary Current session
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Router /session [get]
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	if !h.sessionService.IsAuthenticated() {
		return response.Success(c, "No active session", fiber.Map{
			"isAuthenticated": false,
		})
	}
	return response.Success(c, "Active session", fiber.Map{
		"isAuthenticated": true,
		"role":            h.sessionService.Role(),
		"user":            h.sessionService.CurrentUser(),
		"tenant":          h.sessionService.CurrentTenant(),
	})
}

// VerifyRequest represents a token verification request body
type VerifyRequest struct {
	Token string `json:"token"`
}

// Verify probes the identity provider with a token
// @Summary Verify token
// @Tags Session
// @Accept json
// @Produce json
// @Param body body VerifyRequest true "Token to verify"
// @Success 200 {object} response.Response
// @Router /session/verify [post]
func (h *SessionHandler) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return response.BadRequest(c, "token is required")
	}

	valid := h.sessionService.VerifyToken(c.Context(), req.Token)
	return response.Success(c, "Token checked", fiber.Map{"valid": valid})
}

// Restore rebuilds the session from durable storage
// @Summary Restore session
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Router /session/restore [post]
func (h *SessionHandler) Restore(c *fiber.Ctx) error {
	restored := h.sessionService.RestoreSession(c.Context())
	if !restored {
		return response.Success(c, "No session to restore", fiber.Map{
			"restored": false,
		})
	}
	return response.Success(c, "Session restored", fiber.Map{
		"restored": true,
		"user":     h.sessionService.CurrentUser(),
		"tenant":   h.sessionService.CurrentTenant(),
		"role":     h.sessionService.Role(),
	})
}
