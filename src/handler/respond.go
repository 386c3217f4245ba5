package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"papertrading/src/repository"
	"papertrading/src/stream"
)

var (
	errInvalidLimit   = errors.New("limit must be a positive integer")
	errInvalidPayload = errors.New("invalid JSON payload")
)

// eventPublisher is notified after every committed write.
type eventPublisher interface {
	Publish(ev stream.Event)
}

type errorResponse struct {
	Error string `json:"error"`
}

type createdResponse struct {
	Success bool `json:"success"`
	ID      uint `json:"id"`
}

// emptyObject renders as {} for single-row reads that found nothing.
var emptyObject = struct{}{}

// orEmpty keeps list endpoints rendering [] when nothing matched.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeStoreError maps a repository failure to its HTTP response. Rejected
// payloads are client errors; everything else is reported as a 500.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrInvalidJSON) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeCreated(w http.ResponseWriter, id uint) {
	writeJSON(w, http.StatusOK, createdResponse{Success: true, ID: id})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WithError(err).Warn("invalid request payload")
		return errInvalidPayload
	}
	return nil
}

// parseLimit reads the optional limit query parameter. Values above
// repository.MaxListLimit are clamped; anything that is not a positive
// integer is rejected before reaching the store.
func parseLimit(r *http.Request, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return fallback, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errInvalidLimit
	}
	if limit > repository.MaxListLimit {
		limit = repository.MaxListLimit
	}
	return limit, nil
}

func publish(events eventPublisher, ev stream.Event) {
	if events == nil {
		return
	}
	events.Publish(ev)
}
