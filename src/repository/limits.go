package repository

import "errors"

const (
	DefaultTradeLimit            = 50
	DefaultLogLimit              = 100
	DefaultPortfolioHistoryLimit = 100

	// MaxListLimit caps every list query regardless of what the caller asked for.
	MaxListLimit = 1000
)

// ErrInvalidJSON is returned when a structured payload is not valid JSON text.
var ErrInvalidJSON = errors.New("structured payload must be valid JSON")

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
