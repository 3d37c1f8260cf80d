package controllers

import (
	"net/http"

	"github.com/messmate/messmate-backend/api/responses"
	"github.com/messmate/messmate-backend/internal/snapshot"
	"github.com/messmate/messmate-backend/pkg/config"
	pkgerrors "github.com/messmate/messmate-backend/pkg/errors"
	"github.com/messmate/messmate-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MessMate-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady also checks the snapshot medium so orchestrators stop routing
// traffic when persistence is down.
func HealthReady(cfg *config.Config, store snapshot.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MessMate-Env", cfg.App.Env)
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "snapshot store unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
