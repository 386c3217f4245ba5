package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"papertrading/src/model"
)

// TradeFilter narrows a trade listing. An empty Side lists both sides.
type TradeFilter struct {
	Side  string
	Limit int
}

// TradeRepository is an append-only store of executed trades.
type TradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) *TradeRepository {
	logger.WithField("component", "TradeRepository").
		Debug("Creating new TradeRepository")

	return &TradeRepository{db: db}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *TradeRepository) WithDB(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// List returns the session's trades newest first, capped at filter.Limit.
func (r *TradeRepository) List(ctx context.Context, sessionID string, filter TradeFilter) ([]model.Trade, error) {
	limit := normalizeLimit(filter.Limit, DefaultTradeLimit)

	fields := map[string]interface{}{
		"repo":       "TradeRepository",
		"op":         "List",
		"session_id": sessionID,
		"side":       filter.Side,
		"limit":      limit,
	}
	logger.WithFields(fields).Debug("Fetching trades")

	query := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if filter.Side != "" {
		query = query.Where("side = ?", filter.Side)
	}

	trades := make([]model.Trade, 0)
	err := query.
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&trades).Error
	if err != nil {
		logger.WithFields(fields).WithError(err).Error("Failed to fetch trades")
		return nil, err
	}

	logger.WithFields(fields).WithField("rows_return", len(trades)).Info("Trades fetched")

	return trades, nil
}

// ListAll returns every trade of the session in chronological order.
func (r *TradeRepository) ListAll(ctx context.Context, sessionID string) ([]model.Trade, error) {
	trades := make([]model.Trade, 0)

	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC, id ASC").
		Find(&trades).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "TradeRepository",
			"op":         "ListAll",
			"session_id": sessionID,
		}).WithError(err).Error("Failed to fetch session trades")

		return nil, err
	}

	return trades, nil
}

// Create inserts one trade row. The given trade is updated with the generated ID.
func (r *TradeRepository) Create(ctx context.Context, trade *model.Trade) error {
	if len(trade.MarketConditions) > 0 && !isJSON(trade.MarketConditions) {
		return ErrInvalidJSON
	}

	logger.WithFields(map[string]interface{}{
		"repo":       "TradeRepository",
		"op":         "Create",
		"session_id": trade.SessionID,
		"trade_id":   trade.TradeID,
		"side":       trade.Side,
		"qty":        trade.Quantity,
	}).Debug("Saving trade")

	if err := r.db.WithContext(ctx).Create(trade).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "TradeRepository",
			"op":         "Create",
			"session_id": trade.SessionID,
		}).WithError(err).Error("Failed to save trade")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":       "TradeRepository",
		"op":         "Create",
		"session_id": trade.SessionID,
		"id":         trade.ID,
	}).Info("Trade saved successfully")

	return nil
}
