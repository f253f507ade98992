// Package api provides the HTTP API for the weather card.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/weathercard/weathercard/internal/api/handler"
	"github.com/weathercard/weathercard/internal/api/middleware"
	"github.com/weathercard/weathercard/internal/app"
	"github.com/weathercard/weathercard/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	Metrics       *middleware.Metrics
	Controller    *app.Controller
	Registry      *resilience.Registry
	DefaultRegion string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Controller, cfg.Registry)
	weatherHandler := handler.NewWeatherHandler(cfg.Controller)
	regionsHandler := handler.NewRegionsHandler(cfg.DefaultRegion)
	settingsHandler := handler.NewSettingsHandler(cfg.Controller)

	refreshRateLimit := middleware.RateLimitByIP(middleware.RefreshRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.With(standardRateLimit).Get("/regions", regionsHandler.ListRegions)

		r.Route("/weather", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", weatherHandler.GetCard)
			// Reaches the upstream service.
			r.With(refreshRateLimit).Post("/refresh", weatherHandler.Refresh)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", settingsHandler.GetSettings)
			r.With(middleware.RequireJSON).Put("/", settingsHandler.SaveSettings)
			r.Post("/open", settingsHandler.OpenSettings)
			r.Post("/cancel", settingsHandler.CancelSettings)
		})
	})

	return r
}
