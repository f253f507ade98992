package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercard/weathercard/internal/api/models"
)

func TestProblem_Builders(t *testing.T) {
	p := models.NewProblem(models.ProblemTypeValidation, "Validation error", http.StatusBadRequest, "req_1").
		WithDetail("regionName is required").
		WithInstance("/v1/settings").
		WithErrors([]models.FieldError{{Field: "regionName", Message: "is required", Code: "required"}})

	assert.Equal(t, "regionName is required", p.Detail)
	assert.Equal(t, "/v1/settings", p.Instance)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "required", p.Errors[0].Code)
}

func TestProblem_Write(t *testing.T) {
	rec := httptest.NewRecorder()
	models.NewUnknownRegion("req_2", "Atlantis").WithInstance("/v1/settings").Write(rec)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "req_2", rec.Header().Get("X-Request-Id"))

	var body models.Problem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, models.ProblemTypeUnknownRegion, body.Type)
	assert.Equal(t, "/v1/settings", body.Instance)
	assert.Contains(t, body.Detail, "Atlantis")
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "regionName", body.Errors[0].Field)
}

func TestProblem_Constructors(t *testing.T) {
	tests := []struct {
		problem *models.Problem
		status  int
		typ     string
	}{
		{models.NewBadRequest("r", "bad", nil), http.StatusBadRequest, models.ProblemTypeValidation},
		{models.NewNotFound("r", "missing"), http.StatusNotFound, models.ProblemTypeNotFound},
		{models.NewUnsupportedMediaType("r", "json only"), http.StatusUnsupportedMediaType, models.ProblemTypeUnsupportedMedia},
		{models.NewTooManyRequests("r", "slow down"), http.StatusTooManyRequests, models.ProblemTypeTooManyRequests},
		{models.NewInternalError("r", "oops"), http.StatusInternalServerError, models.ProblemTypeInternal},
		{models.NewServiceUnavailable("r", "later"), http.StatusServiceUnavailable, models.ProblemTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, tt.typ, tt.problem.Type)
			assert.Equal(t, "r", tt.problem.TraceID)
		})
	}
}
