package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"papertrading/src/model"
)

type analyticsReporter interface {
	GetAnalytics(ctx context.Context, sessionID string) (*model.Analytics, error)
}

type sessionExporter interface {
	Export(ctx context.Context, sessionID string) (*model.SessionExport, error)
}

// AnalyticsHandler returns {trades, portfolio, strategies} for a session.
func AnalyticsHandler(reporter analyticsReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := reporter.GetAnalytics(r.Context(), chi.URLParam(r, "sessionId"))
		if err != nil {
			writeStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

// ExportHandler returns the whole session as a JSON attachment.
func ExportHandler(exporter sessionExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")

		export, err := exporter.Export(r.Context(), sessionID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="paper-trading-%s-%d.json"`, sessionID, time.Now().UnixMilli()))
		writeJSON(w, http.StatusOK, export)
	}
}
