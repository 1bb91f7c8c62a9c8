package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis (task queue + rate limiter storage); empty disables both
	RedisAddr     string
	RedisPassword string

	// OIDC identity provider for bearer-token auth
	OIDCIssuer   string
	OIDCClientID string

	// Social post API; empty disables post unfurling
	SocialBearerToken string

	// CORS
	CORSOrigins string // Comma-separated allowed origins, e.g. "https://example.com,https://app.example.com"
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is applied first when
// present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	return &Config{
		Env:               getEnv("ENV", "development"),
		ServerAddr:        getEnv("SERVER_ADDR", ":3000"),
		BaseURL:           getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:       getEnv("DATABASE_URL", "postgres://localhost:5432/linkhive?sslmode=disable"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		OIDCIssuer:        getEnv("OIDC_ISSUER", ""),
		OIDCClientID:      getEnv("OIDC_CLIENT_ID", ""),
		SocialBearerToken: getEnv("SOCIAL_BEARER_TOKEN", ""),
		CORSOrigins:       getEnv("CORS_ORIGINS", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// HasRedis returns true if a Redis address is configured.
func (c *Config) HasRedis() bool {
	return c.RedisAddr != ""
}

// HasOIDC returns true if an identity provider is configured.
func (c *Config) HasOIDC() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}
