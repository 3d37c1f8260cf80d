package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/messmate/messmate-backend/api/responses"
	"github.com/messmate/messmate-backend/api/validators"
	"github.com/messmate/messmate-backend/internal/engine"
	pkgerrors "github.com/messmate/messmate-backend/pkg/errors"
	"github.com/messmate/messmate-backend/pkg/logger"
)

func ListUsage(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, eng.Usage())
	}
}

// RecordUsage logs a meal preparation and deducts stock atomically. A shortage
// on any required item rejects the whole request.
func RecordUsage(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload usageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := payload.toDraft()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := eng.RecordUsage(r.Context(), draft)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

type usageRequest struct {
	MealID      string `json:"meal_id" validate:"required"`
	Date        string `json:"date" validate:"required"`
	PeopleCount int    `json:"people_count" validate:"required,min=1"`
}

func (r usageRequest) toDraft() (engine.UsageDraft, error) {
	mealID, err := uuid.Parse(strings.TrimSpace(r.MealID))
	if err != nil {
		return engine.UsageDraft{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal id")
	}
	date, err := engine.ParseDate(r.Date)
	if err != nil {
		return engine.UsageDraft{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date")
	}
	return engine.UsageDraft{
		MealID:      mealID,
		Date:        date,
		PeopleCount: r.PeopleCount,
	}, nil
}
