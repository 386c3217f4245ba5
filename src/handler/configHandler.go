package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"papertrading/src/model"
	"papertrading/src/stream"
)

type configStore interface {
	Latest(ctx context.Context, sessionID string) (*model.TradingConfig, error)
	Create(ctx context.Context, cfg *model.TradingConfig) error
}

// GetConfigHandler returns the latest configuration snapshot, or {} if none was saved.
func GetConfigHandler(repo configStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := repo.Latest(r.Context(), chi.URLParam(r, "sessionId"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if cfg == nil {
			writeJSON(w, http.StatusOK, emptyObject)
			return
		}

		writeJSON(w, http.StatusOK, cfg)
	}
}

// SaveConfigHandler appends a configuration snapshot.
func SaveConfigHandler(repo configStore, events eventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")

		var payload model.SaveConfigPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		cfg := payload.ToModel(sessionID)
		if err := repo.Create(r.Context(), cfg); err != nil {
			writeStoreError(w, err)
			return
		}

		publish(events, stream.Event{Type: stream.EventConfig, SessionID: sessionID, ID: cfg.ID, Payload: cfg})
		writeCreated(w, cfg.ID)
	}
}
