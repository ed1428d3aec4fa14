package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
// All required fields are validated at startup to ensure fail-fast behavior.
type Config struct {
	// Server configuration
	ServerAddr string
	LogLevel   string
	LogFormat  string // "json" or "text"

	// Solana configuration
	SolanaRPCURL string

	// Export configuration
	OutputDir string

	// NATS configuration (optional; empty disables export event publishing)
	NATSURL string
}

// Load reads configuration from environment variables and validates all required fields.
// Returns an error if any required configuration is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	// Server configuration
	cfg.ServerAddr = getEnvOrDefault("SERVER_ADDR", ":8080")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", "json")

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be 'json' or 'text', got %q", cfg.LogFormat))
	}

	// Solana configuration
	cfg.SolanaRPCURL = os.Getenv("SOLANA_RPC_URL")
	if cfg.SolanaRPCURL == "" {
		errs = append(errs, fmt.Errorf("SOLANA_RPC_URL is required"))
	} else if err := validateRPCURL(cfg.SolanaRPCURL); err != nil {
		errs = append(errs, err)
	}

	// Export configuration
	cfg.OutputDir = getEnvOrDefault("OUTPUT_DIR", ".")

	// NATS configuration
	cfg.NATSURL = os.Getenv("NATS_URL")

	// Return all validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for server initialization where misconfiguration should halt startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.SolanaRPCURL == "" {
		errs = append(errs, fmt.Errorf("SolanaRPCURL is required"))
	} else if err := validateRPCURL(c.SolanaRPCURL); err != nil {
		errs = append(errs, err)
	}

	if c.OutputDir == "" {
		errs = append(errs, fmt.Errorf("OutputDir is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

// validateRPCURL ensures the RPC endpoint is an HTTP(S) URL.
// Anything else (websocket URLs, bare hosts) is a startup-time fatal error.
func validateRPCURL(url string) error {
	if !strings.HasPrefix(url, "http:") && !strings.HasPrefix(url, "https:") {
		return fmt.Errorf("SOLANA_RPC_URL must start with http: or https:, got %q", url)
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
