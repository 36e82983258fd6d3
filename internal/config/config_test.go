package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T) (*Config, error) {
	t.Helper()
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))
	return cfg, cfg.finalize()
}

func TestDefaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 12*time.Hour, cfg.TokenExpires)
	assert.Equal(t, 10*time.Minute, cfg.RecencyWindow)
	assert.Equal(t, 30*time.Second, cfg.DashboardRefresh)
	assert.Equal(t, "NPR", cfg.Currency)
	assert.NotNil(t, cfg.Location())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", " Memory ")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("RECENCY_WINDOW", "5m")
	t.Setenv("TIMEZONE", "Asia/Kathmandu")
	t.Setenv("BASE_URL", "https://chiya.example/")

	cfg, err := parse(t)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenExpires)
	assert.Equal(t, 5*time.Minute, cfg.RecencyWindow)
	assert.Equal(t, "Asia/Kathmandu", cfg.Location().String())
	assert.Equal(t, "https://chiya.example", cfg.BaseURL)
}

func TestInvalidTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err := parse(t)
	assert.ErrorContains(t, err, "TIMEZONE")
}

func TestFinalizeRequiresSecret(t *testing.T) {
	cfg := &Config{AppPort: "8080", Timezone: "UTC"}
	assert.ErrorContains(t, cfg.finalize(), "JWT_SECRET")
}

func TestLocationFallsBackToLocal(t *testing.T) {
	var cfg Config
	assert.Equal(t, time.Local, cfg.Location())
}
