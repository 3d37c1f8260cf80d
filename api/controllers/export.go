package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/messmate/messmate-backend/api/responses"
	"github.com/messmate/messmate-backend/internal/engine"
	"github.com/messmate/messmate-backend/internal/export"
	pkgerrors "github.com/messmate/messmate-backend/pkg/errors"
	"github.com/messmate/messmate-backend/pkg/logger"
)

func ExportItems(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := itemFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCSVAttachment(w, r, logg, "items", export.ItemsTable(eng.Items(filter)))
	}
}

func ExportUsage(eng *engine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeCSVAttachment(w, r, logg, "usage", export.UsageTable(eng.Usage()))
	}
}

func writeCSVAttachment(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string, table export.Table) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteCSV(w, table); err != nil {
		// Headers may already be on the wire; log instead of rewriting.
		if logg != nil {
			logg.Error(r.Context(), "export.write_failed", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "csv export"))
		}
	}
}
