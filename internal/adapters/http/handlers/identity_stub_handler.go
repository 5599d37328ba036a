package handlers

import (
	"log"
	"strings"
	"sync"

	"bmc-rentportal/internal/config"
	"bmc-rentportal/internal/pkg/jwt"
	"bmc-rentportal/internal/pkg/password"
	"bmc-rentportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// stubUser is one demo account served by the bundled identity stub
type stubUser struct {
	ID           string
	Email        string
	Name         string
	Type         string // "tenant" or "admin"
	PasswordHash string
}

// IdentityStubHandler emulates the external authentication provider for
// development. It serves the same sign-in / verify_token / refresh-token
// contract and can answer sign-in in any of the payload shapes the real
// provider has been observed to return, selected by AUTH_STUB_SHAPE.
type IdentityStubHandler struct {
	cfg     *config.Config
	byEmail map[string]*stubUser
	byID    map[string]*stubUser

	// issued refresh tokens, keyed by SHA-256 hash so raw tokens are never
	// kept in memory; only tokens this stub minted are honored on refresh
	mu      sync.Mutex
	refresh map[string]string // token hash -> user ID
}

// NewIdentityStubHandler creates the stub with its demo accounts
func NewIdentityStubHandler(cfg *config.Config) *IdentityStubHandler {
	h := &IdentityStubHandler{
		cfg:     cfg,
		byEmail: make(map[string]*stubUser),
		byID:    make(map[string]*stubUser),
		refresh: make(map[string]string),
	}

	h.addUser("rajesh.kumar@email.com", "Rajesh Kumar", "tenant", "tenant123")
	h.addUser("anita.patel@email.com", "Anita Patel", "tenant", "tenant123")
	h.addUser("admin@bhopalmunicipal.gov.in", "Portal Administrator", "admin", "admin123")

	return h
}

func (h *IdentityStubHandler) addUser(email, name, userType, plainPassword string) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		log.Printf("⚠️ Stub user %s not registered: %v", email, err)
		return
	}
	u := &stubUser{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Type:         userType,
		PasswordHash: hash,
	}
	h.byEmail[strings.ToLower(email)] = u
	h.byID[u.ID] = u
}

// stubSignInRequest mirrors the provider's sign-in request body
type stubSignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignIn authenticates a demo account and answers in the configured shape
func (h *IdentityStubHandler) SignIn(c *fiber.Ctx) error {
	if err := h.checkApplicationID(c); err != nil {
		return err
	}

	var req stubSignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, ok := h.byEmail[strings.ToLower(strings.TrimSpace(req.Username))]
	if !ok || !password.Verify(req.Password, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	accessToken, err := jwt.GenerateAccessToken(
		user.ID, user.Email, user.Name, user.Type,
		h.cfg.JWT.Secret, h.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return response.InternalServerError(c, "Failed to issue token")
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID, uuid.NewString(),
		h.cfg.JWT.RefreshSecret, h.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return response.InternalServerError(c, "Failed to issue refresh token")
	}

	h.mu.Lock()
	h.refresh[password.HashToken(refreshToken)] = user.ID
	h.mu.Unlock()

	return c.JSON(h.renderSignIn(user, accessToken, refreshToken))
}

// renderSignIn builds the sign-in payload in the configured provider shape
func (h *IdentityStubHandler) renderSignIn(user *stubUser, accessToken, refreshToken string) fiber.Map {
	camelUser := fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Type,
	}

	switch h.cfg.Identity.StubShape {
	case "root_camel":
		return fiber.Map{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"user":         camelUser,
		}
	case "results_camel":
		return fiber.Map{
			"results": fiber.Map{
				"accessToken":  accessToken,
				"refreshToken": refreshToken,
				"user":         camelUser,
			},
		}
	case "results_snake":
		return fiber.Map{
			"results": fiber.Map{
				"access_token":  accessToken,
				"refresh_token": refreshToken,
				"user":          camelUser,
			},
		}
	case "root_snake":
		return fiber.Map{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"user":          camelUser,
		}
	default: // results_data, the shape production currently answers with
		return fiber.Map{
			"results": fiber.Map{
				"data": fiber.Map{
					"access_token":  accessToken,
					"refresh_token": refreshToken,
					"user": fiber.Map{
						"external_id": user.ID,
						"user_email":  user.Email,
						"user_name":   user.Name,
						"type":        user.Type,
					},
				},
			},
		}
	}
}

// VerifyToken validates the bearer access token
func (h *IdentityStubHandler) VerifyToken(c *fiber.Ctx) error {
	if err := h.checkApplicationID(c); err != nil {
		return err
	}

	token := bearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing bearer token"})
	}

	if _, err := jwt.ValidateAccessToken(token, h.cfg.JWT.Secret); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token invalid or expired"})
	}
	return c.JSON(fiber.Map{"message": "Token valid"})
}

// stubRefreshRequest mirrors the provider's refresh request body
type stubRefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken exchanges a refresh token for a new access token
func (h *IdentityStubHandler) RefreshToken(c *fiber.Ctx) error {
	if err := h.checkApplicationID(c); err != nil {
		return err
	}

	var req stubRefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "refreshToken is required"})
	}

	claims, err := jwt.ValidateRefreshToken(req.RefreshToken, h.cfg.JWT.RefreshSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Refresh token invalid or expired"})
	}

	h.mu.Lock()
	_, issued := h.refresh[password.HashToken(req.RefreshToken)]
	h.mu.Unlock()
	if !issued {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unknown refresh token"})
	}

	user, ok := h.byID[claims.UserID]
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unknown user"})
	}

	accessToken, err := jwt.GenerateAccessToken(
		user.ID, user.Email, user.Name, user.Type,
		h.cfg.JWT.Secret, h.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return response.InternalServerError(c, "Failed to issue token")
	}

	return c.JSON(fiber.Map{"accessToken": accessToken})
}

// checkApplicationID enforces the fixed tenant header the provider requires
func (h *IdentityStubHandler) checkApplicationID(c *fiber.Ctx) error {
	if c.Get("application_id") != h.cfg.Identity.AppID {
		return fiber.NewError(fiber.StatusForbidden, "Unknown application_id")
	}
	return nil
}

// bearerToken extracts the token from the Authorization header
func bearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
