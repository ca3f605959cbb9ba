// Package config reads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Backend identifiers. The active backend is a build/deploy-time choice, not
// switchable by the end user.
const (
	BackendGemini     = "gemini"
	BackendOpenRouter = "openrouter"
)

// Config is the complete service configuration. A missing API key does not
// fail Load: the analyze endpoint stays up and reports the configuration
// error per request.
type Config struct {
	Addr             string
	Backend          string
	GeminiAPIKey     string
	OpenRouterAPIKey string
}

// Load reads the environment. A .env file is honored when present and
// silently skipped otherwise.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:             getenv("BEATLENS_ADDR", ":8080"),
		Backend:          getenv("MODEL_BACKEND", BackendGemini),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects unknown backend selections early.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGemini, BackendOpenRouter:
		return nil
	default:
		return fmt.Errorf("unknown model backend %q", c.Backend)
	}
}

// APIKey returns the credential for the active backend.
func (c *Config) APIKey() string {
	if c.Backend == BackendOpenRouter {
		return c.OpenRouterAPIKey
	}
	return c.GeminiAPIKey
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
