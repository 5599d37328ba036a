package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bmc-rentportal/internal/adapters/identity"
	"bmc-rentportal/internal/adapters/persistence/memory"
	"bmc-rentportal/internal/adapters/storage"
	"bmc-rentportal/internal/config"
	"bmc-rentportal/internal/core/domain"
	"bmc-rentportal/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

func newTestSessionService(t *testing.T) *services.SessionService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accessToken":  "at-1",
			"refreshToken": "rt-1",
			"user": map[string]string{
				"id":    "u-1",
				"email": "a@b.com",
				"name":  "A",
				"role":  "tenant",
			},
		})
	}))
	t.Cleanup(srv.Close)

	store := storage.NewMemoryStore()
	client := identity.New(config.IdentityConfig{BaseURL: srv.URL, AppID: "test-app"}, store)
	return services.NewSessionService(client, store, memory.NewTenantStore())
}

func TestRequireSession(t *testing.T) {
	sess := newTestSessionService(t)

	app := fiber.New()
	app.Get("/protected", RequireSession(sess), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", resp.StatusCode)
	}

	if ok, err := sess.Login(context.Background(), "a@b.com", "password1", domain.RoleTenant); err != nil || !ok {
		t.Fatalf("login failed: ok=%v err=%v", ok, err)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with a session, got %d", resp.StatusCode)
	}
}

func TestRequireRole(t *testing.T) {
	sess := newTestSessionService(t)

	app := fiber.New()
	app.Get("/admin-only", RequireRole(sess, domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin-only", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", resp.StatusCode)
	}

	// Tenant session against an admin-only route
	if ok, err := sess.Login(context.Background(), "a@b.com", "password1", domain.RoleTenant); err != nil || !ok {
		t.Fatalf("login failed: ok=%v err=%v", ok, err)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin-only", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong role, got %d", resp.StatusCode)
	}
}
