package controllers

import (
	"net/http"
	"time"

	"github.com/messmate/messmate-backend/api/responses"
	"github.com/messmate/messmate-backend/api/validators"
	"github.com/messmate/messmate-backend/internal/engine"
	"github.com/messmate/messmate-backend/internal/stats"
	"github.com/messmate/messmate-backend/pkg/logger"
)

// MonthlyStats derives the report for the requested calendar month. Year and
// month default to the current month when omitted.
func MonthlyStats(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()

		year, err := validators.ParseQueryInt(r, "year", now.Year(), 2000, 2200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		month, err := validators.ParseQueryInt(r, "month", int(now.Month()), 1, 12)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state := eng.Snapshot()
		report := stats.Monthly(state.Usage, state.Items, state.Meals, year, time.Month(month))

		responses.WriteSuccess(w, monthlyStatsResponse{
			Year:  year,
			Month: int(time.Month(month)),
			Stats: report,
		})
	}
}

type monthlyStatsResponse struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	stats.Stats
}
