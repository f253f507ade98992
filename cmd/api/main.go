// Package main provides the entrypoint for the weather card API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/weathercard/weathercard/internal/api"
	"github.com/weathercard/weathercard/internal/api/middleware"
	"github.com/weathercard/weathercard/internal/bootstrap"
	"github.com/weathercard/weathercard/internal/config"
	"github.com/weathercard/weathercard/internal/scheduler"
	"github.com/weathercard/weathercard/internal/telemetry"
	"github.com/weathercard/weathercard/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "weathercard-api"

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := cfg.NewLogger(os.Stdout, serviceName, Version)

	log.Info().
		Str("build_time", BuildTime).
		Str("environment", cfg.Environment).
		Msg("starting weather card API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	components, err := bootstrap.Build(ctx, cfg, log, bootstrap.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire weather card")
	}
	defer func() {
		if closeErr := components.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close preference store")
		}
	}()

	// Fetch cycles outlive requests and stop with the process.
	components.Controller.Start(ctx)

	sched, err := scheduler.New(scheduler.Config{
		MomentSpec:  cfg.Schedule.Moment,
		RefreshSpec: cfg.Schedule.AutoRefresh,
		SyncSpec:    cfg.Schedule.PreferenceSync,
		Controller:  components.Controller,
		Logger:      log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	sched.Start(ctx)

	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		Metrics:       metrics,
		Controller:    components.Controller,
		Registry:      components.Registry,
		DefaultRegion: cfg.Preference.DefaultRegion,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Remote commands drive the same controller the API serves.
	var runner *worker.CommandRunner
	if cfg.PubSub.ProjectID != "" {
		wcfg := worker.DefaultConfig(cfg.PubSub.ProjectID, cfg.PubSub.Subscription)
		runner = worker.NewCommandRunner(components.Controller, wcfg.CommandTimeout, log)

		subscriber, err := worker.NewPubSubHandler(ctx, wcfg, runner, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer subscriber.Close()

		g.Go(func() error {
			return subscriber.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("scheduler jobs still running")
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}

	if runner != nil {
		log.Info().Interface("commands", runner.Metrics()).Msg("command subscriber stopped")
	}
	log.Info().Msg("server stopped")
}
