package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Asia/Jerusalem", cfg.Report.Timezone)
	assert.Equal(t, "he", cfg.Report.DefaultLocale)
	assert.Equal(t, 6, cfg.Report.MaxParallelQueries)
	assert.Equal(t, "authenticated", cfg.Auth.JWTAudience)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REPORT_TIMEZONE", "UTC")
	t.Setenv("REPORT_QUERY_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("REPORT_MAX_PARALLEL_QUERIES", "not-a-number")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.Report.Timezone)
	assert.Equal(t, 2*time.Second, cfg.Report.QueryTimeout)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 6, cfg.Report.MaxParallelQueries)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.Report.Timezone = "UTC"
	require.NoError(t, cfg.Validate())

	loc, err := cfg.Report.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Report.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg.Report.Timezone = "UTC"
	cfg.Server.Environment = "production"
	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}
