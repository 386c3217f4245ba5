package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"papertrading/src/model"
)

// PortfolioRepository stores portfolio snapshots written by the trading logic.
type PortfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) WithDB(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// Latest returns the most recent snapshot, or (nil, nil) when there is none.
func (r *PortfolioRepository) Latest(ctx context.Context, sessionID string) (*model.PortfolioState, error) {
	var state model.PortfolioState

	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC, id DESC").
		Take(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":       "PortfolioRepository",
			"op":         "Latest",
			"session_id": sessionID,
		}).WithError(err).Error("Failed to fetch latest portfolio")

		return nil, err
	}

	return &state, nil
}

// History returns snapshots newest first, capped at limit.
func (r *PortfolioRepository) History(ctx context.Context, sessionID string, limit int) ([]model.PortfolioState, error) {
	limit = normalizeLimit(limit, DefaultPortfolioHistoryLimit)

	states := make([]model.PortfolioState, 0)
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&states).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "PortfolioRepository",
			"op":         "History",
			"session_id": sessionID,
			"limit":      limit,
		}).WithError(err).Error("Failed to fetch portfolio history")

		return nil, err
	}

	return states, nil
}

// ListAll returns every snapshot of the session in chronological order.
func (r *PortfolioRepository) ListAll(ctx context.Context, sessionID string) ([]model.PortfolioState, error) {
	states := make([]model.PortfolioState, 0)

	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC, id ASC").
		Find(&states).Error
	if err != nil {
		return nil, err
	}

	return states, nil
}

func (r *PortfolioRepository) Create(ctx context.Context, state *model.PortfolioState) error {
	logger.WithFields(map[string]interface{}{
		"repo":        "PortfolioRepository",
		"op":          "Create",
		"session_id":  state.SessionID,
		"total_value": state.TotalValue,
	}).Debug("Saving portfolio snapshot")

	if err := r.db.WithContext(ctx).Create(state).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "PortfolioRepository",
			"op":         "Create",
			"session_id": state.SessionID,
		}).WithError(err).Error("Failed to save portfolio snapshot")

		return err
	}

	return nil
}
