package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"papertrading/src/model"
	"papertrading/src/repository"
	"papertrading/src/stream"
)

type tradeStore interface {
	List(ctx context.Context, sessionID string, filter repository.TradeFilter) ([]model.Trade, error)
	Create(ctx context.Context, trade *model.Trade) error
}

// ListTradesHandler lists a session's trades, newest first.
// Supports the optional filters limit (default 50) and side (buy|sell).
func ListTradesHandler(repo tradeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r, repository.DefaultTradeLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		side := r.URL.Query().Get("side")
		if side != "" && !model.IsValidSide(side) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid side %q", side))
			return
		}

		trades, err := repo.List(r.Context(), chi.URLParam(r, "sessionId"), repository.TradeFilter{
			Side:  side,
			Limit: limit,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, orEmpty(trades))
	}
}

// SaveTradeHandler records one executed trade. The writer must send side
// as lowercase "buy" or "sell"; any other spelling, "BUY" included, is
// rejected with 400 and nothing is stored.
func SaveTradeHandler(repo tradeStore, events eventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")

		var payload model.SaveTradePayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if !model.IsValidSide(payload.Side) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid side %q", payload.Side))
			return
		}

		trade := payload.ToModel(sessionID)
		if err := repo.Create(r.Context(), trade); err != nil {
			writeStoreError(w, err)
			return
		}

		publish(events, stream.Event{Type: stream.EventTrade, SessionID: sessionID, ID: trade.ID, Payload: trade})
		writeCreated(w, trade.ID)
	}
}
