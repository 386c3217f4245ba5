package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"papertrading/src/model"
)

// ConfigRepository is an append-only store of session configuration snapshots.
type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

func (r *ConfigRepository) WithDB(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Latest returns the most recently created snapshot of the session.
// Returns (nil, nil) if the session has no saved configuration.
func (r *ConfigRepository) Latest(ctx context.Context, sessionID string) (*model.TradingConfig, error) {
	logger.WithFields(map[string]interface{}{
		"repo":       "ConfigRepository",
		"op":         "Latest",
		"session_id": sessionID,
	}).Debug("Fetching latest config")

	var cfg model.TradingConfig

	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Take(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo":       "ConfigRepository",
				"op":         "Latest",
				"session_id": sessionID,
			}).Info("No config saved for session")

			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":       "ConfigRepository",
			"op":         "Latest",
			"session_id": sessionID,
		}).WithError(err).Error("Failed to fetch latest config")

		return nil, err
	}

	return &cfg, nil
}

// Create appends a snapshot; earlier snapshots are never overwritten.
func (r *ConfigRepository) Create(ctx context.Context, cfg *model.TradingConfig) error {
	logger.WithFields(map[string]interface{}{
		"repo":       "ConfigRepository",
		"op":         "Create",
		"session_id": cfg.SessionID,
		"strategy":   cfg.Strategy,
	}).Debug("Saving config snapshot")

	if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "ConfigRepository",
			"op":         "Create",
			"session_id": cfg.SessionID,
		}).WithError(err).Error("Failed to save config snapshot")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":       "ConfigRepository",
		"op":         "Create",
		"session_id": cfg.SessionID,
		"id":         cfg.ID,
	}).Info("Config snapshot saved")

	return nil
}
