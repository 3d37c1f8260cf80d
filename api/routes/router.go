package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/messmate/messmate-backend/api/controllers"
	"github.com/messmate/messmate-backend/api/middleware"
	"github.com/messmate/messmate-backend/internal/engine"
	"github.com/messmate/messmate-backend/internal/snapshot"
	"github.com/messmate/messmate-backend/pkg/config"
	"github.com/messmate/messmate-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	eng *engine.Engine,
	store snapshot.Store,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, store, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(eng, logg))
			r.Post("/", controllers.CreateItem(eng, logg))
			r.Get("/export", controllers.ExportItems(eng, logg))
			r.Put("/{itemId}", controllers.UpdateItem(eng, logg))
			r.Delete("/{itemId}", controllers.DeleteItem(eng, logg))
		})

		r.Route("/meals", func(r chi.Router) {
			r.Get("/", controllers.ListMeals(eng, logg))
			r.Post("/", controllers.CreateMeal(eng, logg))
			r.Put("/{mealId}", controllers.UpdateMeal(eng, logg))
			r.Delete("/{mealId}", controllers.DeleteMeal(eng, logg))
		})

		r.Route("/usage", func(r chi.Router) {
			r.Get("/", controllers.ListUsage(eng, logg))
			r.Post("/", controllers.RecordUsage(eng, logg))
			r.Get("/export", controllers.ExportUsage(eng, logg))
		})

		r.Get("/stats/monthly", controllers.MonthlyStats(eng, logg))

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", controllers.GetPreferences(eng, logg))
			r.Put("/", controllers.UpdatePreferences(eng, logg))
		})
	})

	return r
}
