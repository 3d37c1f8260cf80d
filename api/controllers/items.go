package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/messmate/messmate-backend/api/responses"
	"github.com/messmate/messmate-backend/api/validators"
	"github.com/messmate/messmate-backend/internal/engine"
	"github.com/messmate/messmate-backend/pkg/enums"
	pkgerrors "github.com/messmate/messmate-backend/pkg/errors"
	"github.com/messmate/messmate-backend/pkg/logger"
)

// ListItems returns the item collection, optionally narrowed by name
// substring, status, and unit query parameters.
func ListItems(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := itemFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, eng.Items(filter))
	}
}

func CreateItem(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := payload.toDraft()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := eng.AddItem(r.Context(), draft)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func UpdateItem(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := payload.toDraft()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := eng.UpdateItem(r.Context(), engine.Item{
			ID:       id,
			Name:     draft.Name,
			Quantity: draft.Quantity,
			Unit:     draft.Unit,
			Notes:    draft.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

func DeleteItem(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := eng.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id, "deleted": true})
	}
}

type itemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"min=0"`
	Unit     string  `json:"unit" validate:"required"`
	Notes    string  `json:"notes"`
}

func (r itemRequest) toDraft() (engine.ItemDraft, error) {
	unit, err := enums.ParseUnit(strings.TrimSpace(r.Unit))
	if err != nil {
		return engine.ItemDraft{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
	}
	return engine.ItemDraft{
		Name:     strings.TrimSpace(r.Name),
		Quantity: r.Quantity,
		Unit:     unit,
		Notes:    strings.TrimSpace(r.Notes),
	}, nil
}

func itemFilterFromQuery(r *http.Request) (engine.ItemFilter, error) {
	filter := engine.ItemFilter{
		Name: strings.TrimSpace(r.URL.Query().Get("name")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseItemStatus(raw)
		if err != nil {
			return engine.ItemFilter{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("unit")); raw != "" {
		unit, err := enums.ParseUnit(raw)
		if err != nil {
			return engine.ItemFilter{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit filter")
		}
		filter.Unit = unit
	}
	return filter, nil
}
