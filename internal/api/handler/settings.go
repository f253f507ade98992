package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/weathercard/weathercard/internal/api/middleware"
	"github.com/weathercard/weathercard/internal/api/models"
	"github.com/weathercard/weathercard/internal/api/response"
	"github.com/weathercard/weathercard/internal/app"
	"github.com/weathercard/weathercard/internal/preference"
)

// SettingsHandler drives the settings page.
type SettingsHandler struct {
	controller *app.Controller
	validate   *validator.Validate
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(controller *app.Controller) *SettingsHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	return &SettingsHandler{
		controller: controller,
		validate:   v,
	}
}

// GetSettings handles GET /v1/settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.controller.Settings())
}

// OpenSettings handles POST /v1/settings/open.
func (h *SettingsHandler) OpenSettings(w http.ResponseWriter, r *http.Request) {
	h.controller.OpenSettings()
	response.JSON(w, r, http.StatusOK, h.controller.Settings())
}

// CancelSettings handles POST /v1/settings/cancel.
func (h *SettingsHandler) CancelSettings(w http.ResponseWriter, r *http.Request) {
	h.controller.CancelSettings()
	response.JSON(w, r, http.StatusOK, h.controller.Card())
}

// SaveSettings handles PUT /v1/settings.
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req models.SaveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "Invalid JSON request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, r, "Request validation failed", fieldErrors(err))
		return
	}

	if _, err := h.controller.SaveRegion(r.Context(), req.RegionName); err != nil {
		if errors.Is(err, preference.ErrUnknownRegion) {
			response.Error(w, r, models.NewUnknownRegion(middleware.GetRequestID(r.Context()), req.RegionName))
			return
		}
		response.InternalError(w, r, "Failed to save region")
		return
	}

	response.JSON(w, r, http.StatusOK, h.controller.Card())
}

func fieldErrors(err error) []models.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldError{
			Field:   fe.Field(),
			Message: "failed " + fe.Tag() + " validation",
			Code:    fe.Tag(),
		})
	}
	return out
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
