package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"papertrading/src/model"
)

// ExchangeFeeRepository caches fee schedules keyed by (exchange, asset).
type ExchangeFeeRepository struct {
	db *gorm.DB
}

func NewExchangeFeeRepository(db *gorm.DB) *ExchangeFeeRepository {
	return &ExchangeFeeRepository{db: db}
}

// Upsert inserts the fee row or replaces the cached values for the same
// exchange and asset.
func (r *ExchangeFeeRepository) Upsert(ctx context.Context, fee *model.ExchangeFee) error {
	logger.WithFields(map[string]interface{}{
		"repo":     "ExchangeFeeRepository",
		"op":       "Upsert",
		"exchange": fee.Exchange,
		"asset":    fee.Asset,
	}).Debug("Caching exchange fees")

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "exchange"}, {Name: "asset"}},
			DoUpdates: clause.AssignmentColumns([]string{"maker_fee", "taker_fee", "fee_note", "updated_at"}),
		}).
		Create(fee).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "ExchangeFeeRepository",
			"op":       "Upsert",
			"exchange": fee.Exchange,
			"asset":    fee.Asset,
		}).WithError(err).Error("Failed to cache exchange fees")

		return err
	}

	return nil
}

// Find returns (nil, nil) when nothing is cached for the pair.
func (r *ExchangeFeeRepository) Find(ctx context.Context, exchange, asset string) (*model.ExchangeFee, error) {
	var fee model.ExchangeFee

	err := r.db.WithContext(ctx).
		Where("exchange = ? AND asset = ?", exchange, asset).
		Take(&fee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &fee, nil
}
