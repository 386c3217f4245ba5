package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"papertrading/src/model"
)

type sessionStore interface {
	List(ctx context.Context) ([]model.SessionSummary, error)
	Create(ctx context.Context, session *model.TradingSession) error
}

// ListSessionsHandler returns every session with its trade rollups.
func ListSessionsHandler(repo sessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := repo.List(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, orEmpty(sessions))
	}
}

// CreateSessionHandler inserts a session. A missing session_id is generated.
func CreateSessionHandler(repo sessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload model.CreateSessionPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		sessionID := strings.TrimSpace(payload.SessionID)
		if sessionID == "" {
			sessionID = "session_" + uuid.NewString()
		}

		session := &model.TradingSession{
			SessionID:   sessionID,
			SessionName: payload.SessionName,
			Notes:       payload.Notes,
		}
		if err := repo.Create(r.Context(), session); err != nil {
			writeStoreError(w, err)
			return
		}

		writeCreated(w, session.ID)
	}
}
