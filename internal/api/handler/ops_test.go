package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercard/weathercard/internal/api/handler"
	"github.com/weathercard/weathercard/internal/api/models"
	"github.com/weathercard/weathercard/internal/provider/resilience"
)

func TestOpsHandler_HealthCheck(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewOpsHandler("1.2.3", "2026-10-19T00:00:00Z", env.controller, nil)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)

	var health models.Health
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "1.2.3", health.Details["version"])
}

func TestOpsHandler_ReadinessCheck(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewOpsHandler("dev", "", env.controller, nil)

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, env.controller.Refresh(context.Background()))

	rec = httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpsHandler_SystemStatus(t *testing.T) {
	env := newTestEnv(t)
	registry := resilience.NewRegistry()
	resilience.NewClient(resilience.ClientConfig{Name: "cwa", Registry: registry})
	registry.RecordSuccess("cwa")

	require.NoError(t, env.controller.Refresh(context.Background()))
	h := handler.NewOpsHandler("dev", "", env.controller, registry)

	rec := httptest.NewRecorder()
	h.SystemStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	var status models.SystemStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.Equal(t, "臺北市", status.Region)
	assert.False(t, status.Fetch.IsLoading)
	assert.NotNil(t, status.Fetch.LastSuccessAt)
	require.Len(t, status.Providers, 1)
	assert.Equal(t, "cwa", status.Providers[0].Provider)
	assert.Equal(t, "closed", status.Providers[0].CircuitState)
	assert.NotNil(t, status.Providers[0].LastSuccessAt)
}

func TestOpsHandler_SystemStatus_FetchFailure(t *testing.T) {
	env := newTestEnv(t)
	env.provider.fail = true
	require.Error(t, env.controller.Refresh(context.Background()))

	h := handler.NewOpsHandler("dev", "", env.controller, nil)

	rec := httptest.NewRecorder()
	h.SystemStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody))

	var status models.SystemStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, models.HealthStatusDegraded, status.Status)
	assert.NotEmpty(t, status.Fetch.LastError)
	assert.Nil(t, status.Fetch.LastSuccessAt)
	assert.Empty(t, status.Providers)
}
