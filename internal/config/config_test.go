package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "SESSION_SECRET is not set")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "a-long-enough-secret")
	t.Setenv("API_URL", "")
	t.Setenv("NEXT_PUBLIC_API_URL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("UPSTREAM_TIMEOUT", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("PRICING_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, defaultAPIURL, cfg.APIBaseURL)
	assert.Zero(t, cfg.UpstreamTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 7*24*3600, cfg.SessionMaxAge)
	assert.Equal(t, "UTC", cfg.Timezone.String())
	assert.InDelta(t, 0.6, cfg.Pricing.DepositRatio, 1e-9)
}

func TestAPIURLFallsBackToLegacyName(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("NEXT_PUBLIC_API_URL", "https://studio.example.com/api/")
	assert.Equal(t, "https://studio.example.com/api", apiURL())

	t.Setenv("API_URL", "http://backend:8000/api")
	assert.Equal(t, "http://backend:8000/api", apiURL())
}

func TestDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "15")
	assert.Equal(t, 15*time.Second, getDuration("UPSTREAM_TIMEOUT", 0))

	t.Setenv("UPSTREAM_TIMEOUT", "1m30s")
	assert.Equal(t, 90*time.Second, getDuration("UPSTREAM_TIMEOUT", 0))

	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getDuration("UPSTREAM_TIMEOUT", time.Second))
}

func TestInvalidTimezone(t *testing.T) {
	t.Setenv("SESSION_SECRET", "a-long-enough-secret")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}
