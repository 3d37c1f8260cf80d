package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/messmate/messmate-backend/api/responses"
	"github.com/messmate/messmate-backend/api/validators"
	"github.com/messmate/messmate-backend/internal/engine"
	pkgerrors "github.com/messmate/messmate-backend/pkg/errors"
	"github.com/messmate/messmate-backend/pkg/logger"
)

func ListMeals(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, eng.Meals())
	}
}

func CreateMeal(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload mealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := payload.toDraft()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meal, err := eng.AddMeal(r.Context(), draft)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, meal)
	}
}

func UpdateMeal(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "mealId"), "mealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload mealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := payload.toDraft()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meal, err := eng.UpdateMeal(r.Context(), engine.MealRecipe{
			ID:    id,
			Name:  draft.Name,
			Lines: draft.Lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, meal)
	}
}

func DeleteMeal(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "mealId"), "mealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := eng.DeleteMeal(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id, "deleted": true})
	}
}

type mealRequest struct {
	Name  string            `json:"name" validate:"required"`
	Lines []mealLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type mealLineRequest struct {
	ItemID         string  `json:"item_id" validate:"required"`
	UsagePerPerson float64 `json:"usage_per_person" validate:"gt=0"`
}

func (r mealRequest) toDraft() (engine.MealDraft, error) {
	lines := make([]engine.RequirementLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		itemID, err := uuid.Parse(strings.TrimSpace(line.ItemID))
		if err != nil {
			return engine.MealDraft{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id").
				WithDetails(map[string]any{"item_id": line.ItemID})
		}
		lines = append(lines, engine.RequirementLine{
			ItemID:         itemID,
			UsagePerPerson: line.UsagePerPerson,
		})
	}
	return engine.MealDraft{
		Name:  strings.TrimSpace(r.Name),
		Lines: lines,
	}, nil
}
