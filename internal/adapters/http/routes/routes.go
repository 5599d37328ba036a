package routes

import (
	"bmc-rentportal/internal/adapters/http/handlers"
	"bmc-rentportal/internal/adapters/http/middleware"
	"bmc-rentportal/internal/adapters/identity"
	"bmc-rentportal/internal/adapters/persistence/memory"
	"bmc-rentportal/internal/adapters/storage"
	"bmc-rentportal/internal/config"
	"bmc-rentportal/internal/core/domain"
	"bmc-rentportal/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// Setup configures all routes and wires the dependency graph. The session
// service is returned so the entrypoint can restore a persisted session
// after the server starts listening.
func Setup(app *fiber.App, cfg *config.Config, store storage.Store) *services.SessionService {
	// Initialize in-memory stores
	tenantStore := memory.NewTenantStore()
	propertyStore := memory.NewPropertyStore()
	config.SeedPortalData(tenantStore, propertyStore)

	// Identity provider client
	identityClient := identity.New(cfg.Identity, store)

	// Initialize services
	sessionService := services.NewSessionService(identityClient, store, tenantStore)
	notifyService := services.NewNotificationService()
	mandateService := services.NewMandateService(cfg.Mandate, sessionService, notifyService)
	tenantService := services.NewTenantService(tenantStore)
	propertyService := services.NewPropertyService(propertyStore)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	sessionHandler := handlers.NewSessionHandler(sessionService)
	enachHandler := handlers.NewENachHandler(mandateService, sessionService)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	propertyHandler := handlers.NewPropertyHandler(propertyService)

	// Root info and health check
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "BMC Rent Portal API",
			"version": "1.0",
		})
	})
	app.Get("/health", healthHandler.Check)

	// Bundled identity stub, replacing the external provider in dev
	if cfg.Identity.StubEnabled {
		stubHandler := handlers.NewIdentityStubHandler(cfg)
		auth := app.Group("/auth")
		auth.Post("/sign-in", middleware.AuthRateLimiter(), stubHandler.SignIn)
		auth.Post("/verify_token", stubHandler.VerifyToken)
		auth.Post("/refresh-token", stubHandler.RefreshToken)
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Session lifecycle
	session := v1.Group("/session")
	session.Post("/login", middleware.AuthRateLimiter(), sessionHandler.Login)
	session.Post("/logout", sessionHandler.Logout)
	session.Post("/restore", sessionHandler.Restore)
	session.Post("/verify", sessionHandler.Verify)
	session.Get("/", sessionHandler.Current)

	// e-NACH mandate registration (tenant sessions only)
	enach := v1.Group("/enach", middleware.MandateRateLimiter())
	enach.Get("/banks", middleware.RequireSession(sessionService), enachHandler.Banks)
	enach.Use(middleware.RequireRole(sessionService, domain.RoleTenant))
	enach.Post("/start", enachHandler.Start)
	enach.Get("/", enachHandler.Get)
	enach.Patch("/draft", enachHandler.UpdateDraft)
	enach.Post("/advance", enachHandler.Advance)
	enach.Post("/back", enachHandler.Back)
	enach.Delete("/", enachHandler.Abandon)

	// Mock resource endpoints consumed by the admin screens
	tenants := api.Group("/tenants")
	tenants.Get("/", tenantHandler.List)
	tenants.Get("/:id", tenantHandler.Get)
	tenants.Post("/", tenantHandler.Create)
	tenants.Put("/:id", tenantHandler.Update)
	tenants.Delete("/:id", tenantHandler.Delete)

	properties := api.Group("/properties")
	properties.Get("/", propertyHandler.List)
	properties.Get("/:id", propertyHandler.Get)
	properties.Post("/", propertyHandler.Create)
	properties.Put("/:id", propertyHandler.Update)
	properties.Delete("/:id", propertyHandler.Delete)

	return sessionService
}
