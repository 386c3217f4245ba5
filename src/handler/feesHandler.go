package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"papertrading/src/model"
)

type feeStore interface {
	Upsert(ctx context.Context, fee *model.ExchangeFee) error
	Find(ctx context.Context, exchange, asset string) (*model.ExchangeFee, error)
}

// CacheFeesHandler stores (or replaces) the fee schedule of an exchange/asset pair.
func CacheFeesHandler(repo feeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload model.CacheFeesPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		exchange := strings.TrimSpace(payload.Exchange)
		asset := strings.TrimSpace(payload.Asset)
		if exchange == "" || asset == "" {
			writeError(w, http.StatusBadRequest, errors.New("exchange and asset are required"))
			return
		}

		fee := &model.ExchangeFee{
			Exchange: exchange,
			Asset:    asset,
			MakerFee: payload.MakerFee,
			TakerFee: payload.TakerFee,
			FeeNote:  payload.Note,
		}
		if err := repo.Upsert(r.Context(), fee); err != nil {
			writeStoreError(w, err)
			return
		}

		writeCreated(w, fee.ID)
	}
}

// GetFeesHandler returns the cached fees of a pair, or {} if nothing is cached.
func GetFeesHandler(repo feeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fee, err := repo.Find(r.Context(), chi.URLParam(r, "exchange"), chi.URLParam(r, "asset"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if fee == nil {
			writeJSON(w, http.StatusOK, emptyObject)
			return
		}

		writeJSON(w, http.StatusOK, fee)
	}
}
