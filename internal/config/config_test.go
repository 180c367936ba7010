package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("MAX_STEPS_LIMIT", "")
	t.Setenv("DEFAULT_EPSILON", "")
	t.Setenv("RUN_RETENTION_HOURS", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 100000, cfg.MaxStepsLimit)
	assert.Equal(t, 1e-8, cfg.DefaultEpsilon)
	assert.False(t, cfg.StrictTables)
	assert.Equal(t, 168, cfg.RunRetentionHours)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("MAX_STEPS_LIMIT", "500")
	t.Setenv("DEFAULT_EPSILON", "1e-6")
	t.Setenv("STRICT_TABLES", "true")
	t.Setenv("CACHE_TTL_SECONDS", "not-a-number")
	t.Setenv("RUN_RETENTION_HOURS", "0")

	cfg := Load()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 500, cfg.MaxStepsLimit)
	assert.Equal(t, 1e-6, cfg.DefaultEpsilon)
	assert.True(t, cfg.StrictTables)
	assert.Equal(t, 600, cfg.CacheTTLSeconds)
	assert.Zero(t, cfg.RunRetentionHours)
}
