// Package handler provides HTTP handlers for the weather card API.
package handler

import (
	"net/http"
	"time"

	"github.com/weathercard/weathercard/internal/api/models"
	"github.com/weathercard/weathercard/internal/api/response"
	"github.com/weathercard/weathercard/internal/app"
	"github.com/weathercard/weathercard/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version    string
	buildTime  string
	controller *app.Controller
	registry   *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. registry may be nil.
func NewOpsHandler(version, buildTime string, controller *app.Controller, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:    version,
		buildTime:  buildTime,
		controller: controller,
		registry:   registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready. The service is ready once a fetch
// cycle has succeeded.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	_, lastSuccess := h.controller.FetchStatus()
	if lastSuccess.IsZero() {
		response.ServiceUnavailable(w, r, "no weather data fetched yet")
		return
	}

	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	})
}

// SystemStatus handles GET /v1/ops/status - fetch and upstream status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	card := h.controller.Card()
	lastErr, lastSuccess := h.controller.FetchStatus()

	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Region: card.RegionName,
		Fetch: models.FetchStatus{
			IsLoading: card.Weather.IsLoading,
		},
		Providers: []models.ProviderStatus{},
	}
	if !lastSuccess.IsZero() {
		ts := lastSuccess.UTC()
		status.Fetch.LastSuccessAt = &ts
	}
	if lastErr != nil {
		status.Fetch.LastError = lastErr.Error()
		status.Status = models.HealthStatusDegraded
	}

	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			ps := models.ProviderStatus{
				Provider:      ph.Name,
				Status:        providerStatus(ph),
				CircuitState:  ph.State,
				LastSuccessAt: ph.LastSuccessAt,
				LastFailureAt: ph.LastFailureAt,
				Message:       ph.LastError,
			}
			if ps.Status != models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
			status.Providers = append(status.Providers, ps)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func providerStatus(h *resilience.ProviderHealth) models.HealthStatus {
	switch {
	case h.IsHealthy():
		return models.HealthStatusOK
	case h.IsDegraded():
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusFail
	}
}
