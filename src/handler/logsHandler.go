package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"papertrading/src/model"
	"papertrading/src/repository"
	"papertrading/src/stream"
)

type logStore interface {
	List(ctx context.Context, sessionID string, filter repository.LogFilter) ([]model.AgentLog, error)
	Create(ctx context.Context, entry *model.AgentLog) error
}

// ListLogsHandler lists a session's agent logs, newest first.
// Supports the optional filters limit (default 100) and type.
func ListLogsHandler(repo logStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r, repository.DefaultLogLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		logs, err := repo.List(r.Context(), chi.URLParam(r, "sessionId"), repository.LogFilter{
			Type:  r.URL.Query().Get("type"),
			Limit: limit,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, orEmpty(logs))
	}
}

// SaveLogHandler records one agent log entry with its optional data payload.
func SaveLogHandler(repo logStore, events eventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")

		var payload model.SaveLogPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if payload.Type == "" {
			writeError(w, http.StatusBadRequest, errors.New("type is required"))
			return
		}

		entry := &model.AgentLog{
			SessionID: sessionID,
			LogType:   payload.Type,
			Content:   payload.Content,
			Data:      model.NullableJSON(payload.Data),
		}
		if err := repo.Create(r.Context(), entry); err != nil {
			writeStoreError(w, err)
			return
		}

		publish(events, stream.Event{Type: stream.EventLog, SessionID: sessionID, ID: entry.ID, Payload: entry})
		writeCreated(w, entry.ID)
	}
}
