package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"GRPC_ADDR", "HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT", "LOG_DEV", "SEED_FILE",
	"MATURITY_SWEEP_INTERVAL", "ACCRUAL_CONCURRENCY", "SHUTDOWN_TIMEOUT",
}

// clearEnv blanks every key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.GRPCAddr)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Log.Development)
	assert.Empty(t, cfg.SeedFile)
	assert.Zero(t, cfg.MaturitySweepInterval)
	assert.Equal(t, 8, cfg.AccrualConcurrency)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GRPC_ADDR", ":7000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("LOG_DEV", "true")
	t.Setenv("MATURITY_SWEEP_INTERVAL", "1m")
	t.Setenv("ACCRUAL_CONCURRENCY", "3")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.GRPCAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, time.Minute, cfg.MaturitySweepInterval)
	assert.Equal(t, 3, cfg.AccrualConcurrency)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	// godotenv never overrides variables that are already set, even to ""
	require.NoError(t, os.Unsetenv("HTTP_ADDR"))
	require.NoError(t, os.Unsetenv("SEED_FILE"))

	path := filepath.Join(dir, "ledger.env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:9999\nSEED_FILE=seed.yaml\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "seed.yaml", cfg.SeedFile)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load .env file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "bad duration", key: "SHUTDOWN_TIMEOUT", value: "soon", wantErr: "invalid duration value for SHUTDOWN_TIMEOUT"},
		{name: "bad integer", key: "ACCRUAL_CONCURRENCY", value: "many", wantErr: "invalid integer value"},
		{name: "zero concurrency", key: "ACCRUAL_CONCURRENCY", value: "0", wantErr: "ACCRUAL_CONCURRENCY must be positive"},
		{name: "bad boolean", key: "LOG_DEV", value: "sometimes", wantErr: "invalid boolean value"},
		{name: "bad level", key: "LOG_LEVEL", value: "loud", wantErr: "invalid LOG_LEVEL"},
		{name: "bad format", key: "LOG_FORMAT", value: "xml", wantErr: "invalid LOG_FORMAT"},
		{name: "negative sweep", key: "MATURITY_SWEEP_INTERVAL", value: "-1s", wantErr: "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
