package handler

import (
	"context"
	"net/http"

	"github.com/weathercard/weathercard/internal/api/models"
	"github.com/weathercard/weathercard/internal/api/response"
	"github.com/weathercard/weathercard/internal/app"
)

// WeatherHandler serves the weather card.
type WeatherHandler struct {
	controller *app.Controller
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(controller *app.Controller) *WeatherHandler {
	return &WeatherHandler{controller: controller}
}

// GetCard handles GET /v1/weather.
func (h *WeatherHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.controller.Card())
}

// Refresh handles POST /v1/weather/refresh. The cycle outlives the request.
func (h *WeatherHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.controller.RefreshAsync(context.WithoutCancel(r.Context()))

	response.Accepted(w, r, models.RefreshAccepted{
		RegionName: h.controller.State().Region.Name,
		IsLoading:  true,
	})
}
