package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, 250, cfg.Throttle.UserPerMinute)
	assert.Equal(t, 100, cfg.Throttle.IPPerMinute)
	assert.Equal(t, "memory", cfg.Throttle.Store)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.Migrations.Enabled)
	assert.NotEmpty(t, cfg.Database.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("THROTTLE_USER_PER_MINUTE", "10")
	t.Setenv("THROTTLE_STORE", "redis")
	t.Setenv("JWT_TTL_SECONDS", "120")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 10, cfg.Throttle.UserPerMinute)
	assert.Equal(t, "redis", cfg.Throttle.Store)
	assert.Equal(t, 2*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, "postgres://u:p@db:5432/x?sslmode=disable", cfg.Database.URL)
}
