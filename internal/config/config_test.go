package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for the test and restores them afterwards.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "PORT", "HOST", "JWT_SECRET", "DATA_PATH", "DB_PATH", "CORS_ORIGINS",
		"INTAKE_WORKERS", "HISTORY_LIMIT", "RATE_LIMIT_WINDOW", "REDIS_URL", "REDIS_CHANNEL")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8801, cfg.Port)
	assert.Equal(t, "0.0.0.0:8801", cfg.Addr())
	assert.Equal(t, filepath.Join("data", "youtube-dj.db"), cfg.DBPath)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 4, cfg.IntakeWorkers)
	assert.Equal(t, 0, cfg.HistoryLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "youtube-dj:events", cfg.RedisChannel)
	assert.Empty(t, cfg.RedisURL)
	assert.True(t, cfg.GeneratedSecret)
	assert.Len(t, cfg.JWTSecret, 64)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_PATH", "/srv/dj")
	t.Setenv("JWT_SECRET", "fixed")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://dj.example.com ,")
	t.Setenv("HISTORY_LIMIT", "50")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/srv/dj/youtube-dj.db", cfg.DBPath)
	assert.Equal(t, "fixed", cfg.JWTSecret)
	assert.False(t, cfg.GeneratedSecret)
	assert.Equal(t, []string{"http://localhost:3000", "https://dj.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadInvalid(t *testing.T) {
	for name, env := range map[string][2]string{
		"workers":         {"INTAKE_WORKERS", "0"},
		"history limit":   {"HISTORY_LIMIT", "-1"},
		"not a number":    {"PORT", "eighty"},
		"zero window":     {"RATE_LIMIT_WINDOW", "0s"},
		"negative window": {"RATE_LIMIT_WINDOW", "-1m"},
		"rate limit":      {"REQUEST_RATE_LIMIT", "0"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
