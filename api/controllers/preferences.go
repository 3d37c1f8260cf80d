package controllers

import (
	"net/http"

	"github.com/messmate/messmate-backend/api/responses"
	"github.com/messmate/messmate-backend/api/validators"
	"github.com/messmate/messmate-backend/internal/engine"
	"github.com/messmate/messmate-backend/pkg/logger"
)

func GetPreferences(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, preferencesResponse{DarkMode: eng.DarkMode()})
	}
}

func UpdatePreferences(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload preferencesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eng.SetDarkMode(r.Context(), *payload.DarkMode)
		responses.WriteSuccess(w, preferencesResponse{DarkMode: eng.DarkMode()})
	}
}

type preferencesRequest struct {
	DarkMode *bool `json:"dark_mode" validate:"required"`
}

type preferencesResponse struct {
	DarkMode bool `json:"dark_mode"`
}
