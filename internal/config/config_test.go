package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vignettes/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.Gateway.URL)
	assert.Equal(t, "http", cfg.Gateway.Mode)
	assert.Equal(t, "USD", cfg.Wizard.Currency)
	assert.Equal(t, 1500*time.Millisecond, cfg.Wizard.ConfirmDelay)
	assert.Equal(t, "postgres://postgres:@localhost:5432/vignettes?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("API_URL", "https://dgrk.example/api")
	t.Setenv("GATEWAY_MODE", "fixture")
	t.Setenv("GATEWAY_TIMEOUT", "5s")
	t.Setenv("SANDBOX_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://dgrk.example/api", cfg.Gateway.URL)
	assert.Equal(t, "fixture", cfg.Gateway.Mode)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Sandbox.AllowedOrigins)
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("GATEWAY_MODE", "grpc")

	_, err := config.Load()
	assert.ErrorContains(t, err, "GATEWAY_MODE")
}
