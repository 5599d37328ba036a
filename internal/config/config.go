package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Identity IdentityConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Mandate  MandateConfig
}

// IdentityConfig holds the external authentication provider configuration
type IdentityConfig struct {
	BaseURL     string
	AppID       string
	Timeout     time.Duration
	StubEnabled bool
	StubShape   string
}

// JWTConfig holds JWT configuration for the bundled identity stub
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// RedisConfig holds the durable session storage configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MandateConfig holds the simulated gateway step delays
type MandateConfig struct {
	RedirectDelay time.Duration
	BankDelay     time.Duration
	LoginDelay    time.Duration
	OTPDelay      time.Duration
	ConfirmDelay  time.Duration
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	port := getEnv("PORT", "3000")

	config := &Config{
		AppMode:  appMode,
		Port:     port,
		Identity: loadIdentityConfig(appMode, port),
		JWT:      loadJWTConfig(appMode),
		Redis:    loadRedisConfig(),
		Mandate:  loadMandateConfig(),
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadIdentityConfig loads the auth provider config based on mode
func loadIdentityConfig(mode, port string) IdentityConfig {
	timeoutSecs, _ := strconv.Atoi(getEnv("AUTH_TIMEOUT_SECONDS", "10"))

	// The stub replaces the real provider in dev unless explicitly disabled
	stubEnabled, _ := strconv.ParseBool(getEnv("AUTH_STUB_ENABLED", strconv.FormatBool(mode == "dev")))

	// With the stub enabled the provider endpoints are served by this process
	defaultBaseURL := "https://dev.authentication.payplatter.in/auth"
	if stubEnabled {
		defaultBaseURL = "http://localhost:" + port + "/auth"
	}

	return IdentityConfig{
		BaseURL:     getEnv("AUTH_BASE_URL", defaultBaseURL),
		AppID:       getEnv("AUTH_APP_ID", "PRMS.Mp9N3bRcT6FgYqZ"),
		Timeout:     time.Duration(timeoutSecs) * time.Second,
		StubEnabled: stubEnabled,
		StubShape:   getEnv("AUTH_STUB_SHAPE", "results_data"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadRedisConfig loads the durable storage config
func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

// loadMandateConfig loads the simulated NPCI gateway delays.
// Defaults match the production simulation timings.
func loadMandateConfig() MandateConfig {
	return MandateConfig{
		RedirectDelay: getDurationMs("ENACH_REDIRECT_DELAY_MS", 2000),
		BankDelay:     getDurationMs("ENACH_BANK_DELAY_MS", 1500),
		LoginDelay:    getDurationMs("ENACH_LOGIN_DELAY_MS", 2000),
		OTPDelay:      getDurationMs("ENACH_OTP_DELAY_MS", 1500),
		ConfirmDelay:  getDurationMs("ENACH_CONFIRM_DELAY_MS", 2500),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationMs gets a millisecond duration environment variable
func getDurationMs(key string, defaultMs int) time.Duration {
	ms, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultMs)))
	if err != nil {
		ms = defaultMs
	}
	return time.Duration(ms) * time.Millisecond
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "https://rentportal.bhopalmunicipal.gov.in"
	}
	return origins
}
