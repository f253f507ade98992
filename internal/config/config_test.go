package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercard/weathercard/internal/config"
)

var configKeys = []string{
	"APP_PORT", "APP_ENV", "LOG_LEVEL", "CWA_API_KEY", "CWA_BASE_URL", "FETCH_TIMEOUT",
	"FETCH_MAX_RETRIES", "PREFERENCE_STORE", "SQLITE_PATH", "DEFAULT_REGION", "SUN_TABLE_PATH",
	"MOMENT_SCHEDULE", "AUTO_REFRESH_SCHEDULE", "PREFERENCE_SYNC_SCHEDULE", "OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_TRACES_SAMPLE_RATIO",
	"PUBSUB_PROJECT_ID", "PUBSUB_SUBSCRIPTION",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		// Setenv registers the restore; the key must then be absent for .env files to apply.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.CWA.FetchTimeout)
	assert.Zero(t, cfg.CWA.MaxRetries)
	assert.Equal(t, config.StoreSQLite, cfg.Preference.Store)
	assert.Equal(t, "臺北市", cfg.Preference.DefaultRegion)
	assert.Equal(t, "@every 1m", cfg.Schedule.Moment)
	assert.Empty(t, cfg.Schedule.AutoRefresh)
	assert.Equal(t, "@every 30s", cfg.Schedule.PreferenceSync)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.InDelta(t, 1.0, cfg.Telemetry.SampleRatio, 0.0001)
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CWA_API_KEY=CWA-123\nFETCH_TIMEOUT=3s\nPREFERENCE_STORE=memory\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "CWA-123", cfg.CWA.APIKey)
	assert.Equal(t, 3*time.Second, cfg.CWA.FetchTimeout)
	assert.Equal(t, config.StoreMemory, cfg.Preference.Store)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"FETCH_TIMEOUT":     "soon",
		"FETCH_MAX_RETRIES": "-1",
		"PREFERENCE_STORE":  "redis",
		"LOG_LEVEL":         "loud",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf, "weathercard-api", "test")
	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"service":"weathercard-api"`)
	assert.Contains(t, buf.String(), "kept")
}
