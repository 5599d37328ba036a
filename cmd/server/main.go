package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bmc-rentportal/internal/adapters/http/middleware"
	"bmc-rentportal/internal/adapters/http/routes"
	"bmc-rentportal/internal/adapters/storage"
	"bmc-rentportal/internal/config"
	"bmc-rentportal/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title BMC Rent Portal API
// @version 1.0
// @description Bhopal Municipal Corporation rent collection portal API

// @contact.name API Support
// @contact.email support@bhopalmunicipal.gov.in

// @host rentportal.bhopalmunicipal.gov.in
// @BasePath /api/v1
// @schemes https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Durable session storage: Redis when reachable, process memory otherwise
	var store storage.Store
	if client := config.NewRedisClient(cfg.Redis); client != nil {
		store = storage.NewRedisStore(client, "")
		log.Println("✅ Session storage: redis")
	} else {
		store = storage.NewMemoryStore()
		log.Println("⚠️ Session storage: in-memory (sessions will not survive restarts)")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BMC Rent Portal API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (wires stores, services and handlers)
	sessionService := routes.Setup(app, cfg, store)

	// Restore a persisted session once the server is accepting connections;
	// with the stub enabled the verification call targets this same process.
	go restoreSession(sessionService)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// restoreSession attempts to rebuild the session persisted by a previous run
func restoreSession(sessionService *services.SessionService) {
	time.Sleep(500 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if sessionService.RestoreSession(ctx) {
		log.Println("✅ Previous session restored")
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
