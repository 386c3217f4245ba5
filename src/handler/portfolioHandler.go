package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"papertrading/src/model"
	"papertrading/src/repository"
	"papertrading/src/stream"
)

type portfolioStore interface {
	Latest(ctx context.Context, sessionID string) (*model.PortfolioState, error)
	History(ctx context.Context, sessionID string, limit int) ([]model.PortfolioState, error)
	Create(ctx context.Context, state *model.PortfolioState) error
}

// GetPortfolioHandler returns the latest snapshot, or {} if none exists.
func GetPortfolioHandler(repo portfolioStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := repo.Latest(r.Context(), chi.URLParam(r, "sessionId"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if state == nil {
			writeJSON(w, http.StatusOK, emptyObject)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

func PortfolioHistoryHandler(repo portfolioStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r, repository.DefaultPortfolioHistoryLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		history, err := repo.History(r.Context(), chi.URLParam(r, "sessionId"), limit)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, orEmpty(history))
	}
}

func SavePortfolioHandler(repo portfolioStore, events eventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")

		var payload model.SavePortfolioPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		state := payload.ToModel(sessionID)
		if err := repo.Create(r.Context(), state); err != nil {
			writeStoreError(w, err)
			return
		}

		publish(events, stream.Event{Type: stream.EventPortfolio, SessionID: sessionID, ID: state.ID, Payload: state})
		writeCreated(w, state.ID)
	}
}
