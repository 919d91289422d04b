// Package config loads the server configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/simaogato/ledger-backend/internal/pkg/logging"
)

// Config represents the server configuration.
type Config struct {
	GRPCAddr string
	HTTPAddr string
	Log      logging.Config

	// SeedFile lists accounts opened at startup; empty disables seeding
	SeedFile string
	// MaturitySweepInterval is how often fixed deposits are checked for maturity; zero disables the sweep
	MaturitySweepInterval time.Duration
	AccrualConcurrency    int
	ShutdownTimeout       time.Duration
}

// Load loads configuration from environment variables.
// A .env file in the current directory is loaded when present; a custom path may be given
// and must exist.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	logDev, err := parseBoolEnv("LOG_DEV", false)
	if err != nil {
		return nil, err
	}
	sweep, err := parseDurationEnv("MATURITY_SWEEP_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	shutdown, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	concurrency, err := parseIntEnv("ACCRUAL_CONCURRENCY", 8)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GRPCAddr: getEnvOrDefault("GRPC_ADDR", ":8080"),
		HTTPAddr: getEnvOrDefault("HTTP_ADDR", ":9090"),
		Log: logging.Config{
			Level:       getEnvOrDefault("LOG_LEVEL", "info"),
			Format:      getEnvOrDefault("LOG_FORMAT", "json"),
			Development: logDev,
		},
		SeedFile:              os.Getenv("SEED_FILE"),
		MaturitySweepInterval: sweep,
		AccrualConcurrency:    concurrency,
		ShutdownTimeout:       shutdown,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.GRPCAddr == "" {
		return fmt.Errorf("GRPC_ADDR must not be empty")
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid LOG_FORMAT %q: want json or console", c.Log.Format)
	}
	if c.MaturitySweepInterval < 0 {
		return fmt.Errorf("MATURITY_SWEEP_INTERVAL must not be negative")
	}
	if c.AccrualConcurrency <= 0 {
		return fmt.Errorf("ACCRUAL_CONCURRENCY must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}
	return parsed, nil
}

// parseDurationEnv accepts Go duration strings such as "30s" or "1h"
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}
	return parsed, nil
}
