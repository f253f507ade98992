// Package bootstrap assembles the weather card from configuration. The API
// server, the worker and the terminal client share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/weathercard/weathercard/internal/app"
	"github.com/weathercard/weathercard/internal/config"
	"github.com/weathercard/weathercard/internal/database"
	"github.com/weathercard/weathercard/internal/preference"
	"github.com/weathercard/weathercard/internal/provider/resilience"
	"github.com/weathercard/weathercard/internal/sun"
	"github.com/weathercard/weathercard/internal/weather"
	"github.com/weathercard/weathercard/internal/weather/cwa"
)

// Components are the wired collaborators of one process.
type Components struct {
	Controller  *app.Controller
	Preferences *preference.Service
	Fetcher     *weather.Fetcher
	Registry    *resilience.Registry

	closers []func() error
}

// Options override pieces of the wiring, for tests.
type Options struct {
	// Provider replaces the CWA client.
	Provider weather.Provider

	// Repository replaces the configured preference store.
	Repository preference.Repository
}

// Build opens the preference store, loads the sun table and wires the
// controller. Close releases what Build opened.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) (*Components, error) {
	c := &Components{Registry: resilience.NewRegistry()}

	repo := opts.Repository
	if repo == nil {
		var err error
		if repo, err = c.openRepository(ctx, cfg, logger); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	prefs, err := preference.NewService(preference.ServiceConfig{
		Repository:    repo,
		Logger:        logger,
		DefaultRegion: cfg.Preference.DefaultRegion,
	})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("creating preference service: %w", err)
	}
	c.Preferences = prefs

	table, err := loadSunTable(cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	logger.Info().Int("regions", table.Regions()).Msg("sun table loaded")

	provider := opts.Provider
	if provider == nil {
		if cfg.CWA.APIKey == "" {
			logger.Warn().Msg("CWA_API_KEY is not set, upstream requests will be rejected")
		}

		httpCfg := resilience.DefaultClientConfig(cwa.ProviderName)
		httpCfg.Timeout = cfg.CWA.FetchTimeout
		httpCfg.MaxRetries = cfg.CWA.MaxRetries
		httpCfg.Registry = c.Registry

		provider = cwa.NewClient(cwa.ClientConfig{
			APIKey:     cfg.CWA.APIKey,
			BaseURL:    cfg.CWA.BaseURL,
			HTTPClient: resilience.NewClient(httpCfg),
			Logger:     logger,
		})
	}

	c.Fetcher = weather.NewFetcher(weather.FetcherConfig{
		Provider: provider,
		Logger:   logger,
		Timeout:  cfg.CWA.FetchTimeout,
	})

	c.Controller = app.NewController(app.ControllerConfig{
		Preferences: prefs,
		Fetcher:     c.Fetcher,
		Resolver:    sun.NewResolver(sun.ResolverConfig{Table: table, Logger: logger}),
		Logger:      logger,
	})

	return c, nil
}

// Close releases the preference store.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Components) openRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (preference.Repository, error) {
	switch cfg.Preference.Store {
	case config.StoreMemory:
		logger.Warn().Msg("using in-memory preference store, the region resets on restart")
		return preference.NewInMemoryRepository(), nil

	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		c.closers = append(c.closers, func() error { pool.Close(); return nil })
		logger.Info().
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Database).
			Msg("database connected")
		repo, err := preference.NewPostgresRepository(ctx, pool)
		if err != nil {
			return nil, err
		}
		return repo, nil

	default:
		db, err := database.OpenSQLite(ctx, cfg.Preference.SQLitePath)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)
		logger.Info().Str("path", cfg.Preference.SQLitePath).Msg("sqlite preference store opened")
		repo, err := preference.NewSQLiteRepository(ctx, db)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
}

func loadSunTable(cfg *config.Config) (*sun.Table, error) {
	if cfg.SunTablePath == "" {
		table, err := sun.BundledTable()
		if err != nil {
			return nil, fmt.Errorf("loading bundled sun table: %w", err)
		}
		return table, nil
	}

	table, err := sun.LoadTableFile(cfg.SunTablePath, sun.Taipei)
	if err != nil {
		return nil, fmt.Errorf("loading sun table %s: %w", cfg.SunTablePath, err)
	}
	return table, nil
}
