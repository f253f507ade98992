package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/weathercard/weathercard/internal/api/middleware"
)

func TestRateLimitByIP(t *testing.T) {
	handler := middleware.RequestID(middleware.RateLimitByIP(middleware.RateLimitConfig{
		RequestLimit: 2,
		WindowLength: time.Minute,
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/weather/refresh", http.NoBody)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusAccepted, send("203.0.113.1:1000").Code)
	assert.Equal(t, http.StatusAccepted, send("203.0.113.1:1000").Code)

	limited := send("203.0.113.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "application/problem+json", limited.Header().Get("Content-Type"))
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "rate limit exceeded")
	assert.Contains(t, limited.Body.String(), "/v1/weather/refresh")

	assert.Equal(t, http.StatusAccepted, send("203.0.113.2:1000").Code)
}

func TestRateLimitDefaults(t *testing.T) {
	assert.Equal(t, 6, middleware.RefreshRateLimit.RequestLimit)
	assert.Equal(t, time.Minute, middleware.RefreshRateLimit.WindowLength)
	assert.Equal(t, 120, middleware.StandardRateLimit.RequestLimit)
}
