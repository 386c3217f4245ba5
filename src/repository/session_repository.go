package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"papertrading/src/model"
)

// SessionRepository handles read/write operations for trading sessions.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a repository over the shared store handle.
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	logger.WithField("component", "SessionRepository").
		Debug("Creating new SessionRepository")

	return &SessionRepository{db: db}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *SessionRepository) WithDB(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns every session with its trade rollups, newest first.
// Sessions without trades are kept with zero-valued aggregates.
func (r *SessionRepository) List(ctx context.Context) ([]model.SessionSummary, error) {
	logger.WithFields(map[string]interface{}{
		"repo": "SessionRepository",
		"op":   "List",
	}).Debug("Listing sessions")

	sessions := make([]model.SessionSummary, 0)

	err := r.db.WithContext(ctx).
		Table("trading_sessions AS ts").
		Select(`ts.id, ts.session_id, ts.session_name, ts.notes, ts.created_at,
			COUNT(t.id) AS total_trades,
			COALESCE(SUM(CASE WHEN t.pnl > 0 THEN 1 ELSE 0 END), 0) AS winning_trades,
			COALESCE(SUM(t.pnl), 0) AS total_pnl`).
		Joins("LEFT JOIN trades t ON ts.session_id = t.session_id").
		Group("ts.id").
		Order("ts.created_at DESC, ts.id DESC").
		Scan(&sessions).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "SessionRepository",
			"op":   "List",
		}).WithError(err).Error("Failed to list sessions")

		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "SessionRepository",
		"op":          "List",
		"rows_return": len(sessions),
	}).Info("Sessions listed")

	return sessions, nil
}

// Create inserts a new session. The given session is updated with the
// generated ID. A duplicate session id surfaces as gorm.ErrDuplicatedKey.
func (r *SessionRepository) Create(ctx context.Context, session *model.TradingSession) error {
	logger.WithFields(map[string]interface{}{
		"repo":       "SessionRepository",
		"op":         "Create",
		"session_id": session.SessionID,
	}).Debug("Creating new session")

	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "SessionRepository",
			"op":         "Create",
			"session_id": session.SessionID,
		}).WithError(err).Error("Failed to create session")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":       "SessionRepository",
		"op":         "Create",
		"session_id": session.SessionID,
		"id":         session.ID,
	}).Info("Session created successfully")

	return nil
}

// FindBySessionID fetches a session by its external identifier.
// Returns (nil, nil) if the session is not found.
func (r *SessionRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.TradingSession, error) {
	var session model.TradingSession

	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Take(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":       "SessionRepository",
			"op":         "FindBySessionID",
			"session_id": sessionID,
		}).WithError(err).Error("Failed to fetch session")

		return nil, err
	}

	return &session, nil
}
