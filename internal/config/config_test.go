package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err, "a missing config file must not be an error")

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 30*time.Second, cfg.Functions.Timeout)
	assert.NotEmpty(t, cfg.Database.DSN)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}
