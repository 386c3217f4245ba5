package repository

import (
	"context"
	"encoding/json"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"papertrading/src/model"
)

// LogFilter narrows a log listing. An empty Type lists every log type.
type LogFilter struct {
	Type  string
	Limit int
}

// LogRepository is an append-only store of agent/system log entries.
type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) WithDB(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// List returns the session's log entries newest first, capped at filter.Limit.
func (r *LogRepository) List(ctx context.Context, sessionID string, filter LogFilter) ([]model.AgentLog, error) {
	limit := normalizeLimit(filter.Limit, DefaultLogLimit)

	fields := map[string]interface{}{
		"repo":       "LogRepository",
		"op":         "List",
		"session_id": sessionID,
		"log_type":   filter.Type,
		"limit":      limit,
	}
	logger.WithFields(fields).Debug("Fetching agent logs")

	query := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if filter.Type != "" {
		query = query.Where("log_type = ?", filter.Type)
	}

	logs := make([]model.AgentLog, 0)
	err := query.
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		logger.WithFields(fields).WithError(err).Error("Failed to fetch agent logs")
		return nil, err
	}

	logger.WithFields(fields).WithField("rows_return", len(logs)).Info("Agent logs fetched")

	return logs, nil
}

// ListAll returns every log entry of the session in chronological order.
func (r *LogRepository) ListAll(ctx context.Context, sessionID string) ([]model.AgentLog, error) {
	logs := make([]model.AgentLog, 0)

	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// Create inserts one log entry. A non-empty Data must be valid JSON text,
// otherwise the write is rejected with ErrInvalidJSON.
func (r *LogRepository) Create(ctx context.Context, entry *model.AgentLog) error {
	if len(entry.Data) > 0 && !isJSON(entry.Data) {
		return ErrInvalidJSON
	}

	logger.WithFields(map[string]interface{}{
		"repo":       "LogRepository",
		"op":         "Create",
		"session_id": entry.SessionID,
		"log_type":   entry.LogType,
	}).Debug("Saving agent log")

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "LogRepository",
			"op":         "Create",
			"session_id": entry.SessionID,
		}).WithError(err).Error("Failed to save agent log")

		return err
	}

	return nil
}

func isJSON(raw []byte) bool {
	return json.Valid(raw)
}
