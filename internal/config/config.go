// Package config loads process configuration from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/weathercard/weathercard/internal/database"
	"github.com/weathercard/weathercard/internal/location"
)

// Preference store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all process configuration.
type Config struct {
	Port        string
	Environment string
	LogLevel    zerolog.Level

	CWA struct {
		APIKey       string
		BaseURL      string
		FetchTimeout time.Duration
		MaxRetries   uint64
	}

	Preference struct {
		Store         string
		SQLitePath    string
		DefaultRegion string
	}

	Database database.Config

	// SunTablePath overrides the bundled sunrise/sunset table when set.
	SunTablePath string

	Schedule struct {
		Moment      string
		AutoRefresh string

		// PreferenceSync polls the store for regions saved by other processes.
		PreferenceSync string
	}

	Telemetry struct {
		Enabled      bool
		OTLPEndpoint string
		SampleRatio  float64
	}

	PubSub struct {
		ProjectID    string
		Subscription string
	}
}

// Load reads a .env file when present, then the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := &Config{}
	var err error

	cfg.Port = getEnvOrDefault("APP_PORT", "8080")
	cfg.Environment = getEnvOrDefault("APP_ENV", "development")

	cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg.CWA.APIKey = os.Getenv("CWA_API_KEY")
	cfg.CWA.BaseURL = os.Getenv("CWA_BASE_URL")
	if cfg.CWA.FetchTimeout, err = time.ParseDuration(getEnvOrDefault("FETCH_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}
	if cfg.CWA.MaxRetries, err = strconv.ParseUint(getEnvOrDefault("FETCH_MAX_RETRIES", "0"), 10, 32); err != nil {
		return nil, fmt.Errorf("invalid FETCH_MAX_RETRIES: %w", err)
	}

	cfg.Preference.Store = strings.ToLower(getEnvOrDefault("PREFERENCE_STORE", StoreSQLite))
	switch cfg.Preference.Store {
	case StoreSQLite, StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("invalid PREFERENCE_STORE %q", cfg.Preference.Store)
	}
	cfg.Preference.SQLitePath = getEnvOrDefault("SQLITE_PATH", "data/weathercard.db")
	cfg.Preference.DefaultRegion = getEnvOrDefault("DEFAULT_REGION", location.DefaultRegionName)

	cfg.Database = database.ConfigFromEnv()
	cfg.SunTablePath = os.Getenv("SUN_TABLE_PATH")

	cfg.Schedule.Moment = getEnvOrDefault("MOMENT_SCHEDULE", "@every 1m")
	cfg.Schedule.AutoRefresh = os.Getenv("AUTO_REFRESH_SCHEDULE")
	cfg.Schedule.PreferenceSync = getEnvOrDefault("PREFERENCE_SYNC_SCHEDULE", "@every 30s")

	cfg.Telemetry.Enabled = os.Getenv("OTEL_ENABLED") == "true"
	cfg.Telemetry.OTLPEndpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	if cfg.Telemetry.SampleRatio, err = strconv.ParseFloat(getEnvOrDefault("OTEL_TRACES_SAMPLE_RATIO", "1"), 64); err != nil {
		return nil, fmt.Errorf("invalid OTEL_TRACES_SAMPLE_RATIO: %w", err)
	}

	cfg.PubSub.ProjectID = os.Getenv("PUBSUB_PROJECT_ID")
	cfg.PubSub.Subscription = getEnvOrDefault("PUBSUB_SUBSCRIPTION", "weathercard-commands")

	return cfg, nil
}

// NewLogger builds the process logger: JSON to w with service and version fields.
func (c *Config) NewLogger(w io.Writer, service, version string) zerolog.Logger {
	return zerolog.New(w).
		Level(c.LogLevel).
		With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Logger()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
