package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimal environment for a loadable config.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CLOUDTASK_DATABASE_URL", "postgres://localhost:5432/cloudtask")
	t.Setenv("CLOUDTASK_CACHE_ADDR", "localhost:6379")
	t.Setenv("CLOUDTASK_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/cloudtask", cfg.Database.URL)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr)

	// Defaults
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t, 30, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 2, cfg.Queue.WorkerCount)
	assert.Equal(t, "cloudtask.jobs", cfg.Queue.Exchange)
}

func TestLoadOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CLOUDTASK_SERVER_PORT", "9090")
	t.Setenv("CLOUDTASK_SERVER_LOG_LEVEL", "debug")
	t.Setenv("CLOUDTASK_CACHE_TTL_SECONDS", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing database url", "CLOUDTASK_DATABASE_URL", ""},
		{"missing cache addr", "CLOUDTASK_CACHE_ADDR", ""},
		{"short jwt secret", "CLOUDTASK_AUTH_JWT_SECRET", "tooshort"},
		{"bad log level", "CLOUDTASK_SERVER_LOG_LEVEL", "verbose"},
		{"bad port", "CLOUDTASK_SERVER_PORT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
