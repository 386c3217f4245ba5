package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"papertrading/src/model"
)

var hundred = decimal.NewFromInt(100)

// Reporter computes derived statistics for a session straight from the store.
type Reporter struct {
	db *gorm.DB
}

func NewReporter(db *gorm.DB) *Reporter {
	return &Reporter{db: db}
}

// GetAnalytics runs the trade, portfolio and strategy aggregates concurrently
// and merges them. The call fails as a whole if any aggregate fails. The three
// reads are independent point-in-time reads, not one transaction.
func (r *Reporter) GetAnalytics(ctx context.Context, sessionID string) (*model.Analytics, error) {
	log := logger.WithFields(map[string]interface{}{
		"component":  "Reporter",
		"op":         "GetAnalytics",
		"session_id": sessionID,
	})
	log.Debug("Computing session analytics")

	var (
		trades     model.TradeStats
		portfolio  model.PortfolioStats
		strategies []model.StrategyStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := r.tradeStats(gctx, sessionID)
		if err != nil {
			return fmt.Errorf("trade stats: %w", err)
		}
		trades = stats
		return nil
	})
	g.Go(func() error {
		stats, err := r.portfolioStats(gctx, sessionID)
		if err != nil {
			return fmt.Errorf("portfolio stats: %w", err)
		}
		portfolio = stats
		return nil
	})
	g.Go(func() error {
		stats, err := r.strategyStats(gctx, sessionID)
		if err != nil {
			return fmt.Errorf("strategy stats: %w", err)
		}
		strategies = stats
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Failed to compute session analytics")
		return nil, err
	}

	trades.WinRate = WinRate(trades.WinningTrades, trades.SellTrades)
	if strategies == nil {
		strategies = []model.StrategyStats{}
	}

	return &model.Analytics{
		Trades:     trades,
		Portfolio:  portfolio,
		Strategies: strategies,
	}, nil
}

// WinRate is winning trades over SELL trades as a percentage rounded to two
// decimals, 0 when there are no sells. Only sells realize P&L, hence the denominator.
func WinRate(winning, sells int64) float64 {
	if sells <= 0 {
		return 0
	}
	return decimal.NewFromInt(winning).
		Mul(hundred).
		Div(decimal.NewFromInt(sells)).
		Round(2).
		InexactFloat64()
}

// MaxGainPercent is (max-min)/min*100. ok is false when min is zero.
func MaxGainPercent(min, max float64) (float64, bool) {
	if min == 0 {
		return 0, false
	}
	lo := decimal.NewFromFloat(min)
	return decimal.NewFromFloat(max).Sub(lo).Div(lo).Mul(hundred).InexactFloat64(), true
}

func (r *Reporter) tradeStats(ctx context.Context, sessionID string) (model.TradeStats, error) {
	var stats model.TradeStats

	err := r.db.WithContext(ctx).
		Table("trades").
		Select(`COUNT(*) AS total_trades,
			COUNT(CASE WHEN side = 'buy' THEN 1 END) AS buy_trades,
			COUNT(CASE WHEN side = 'sell' THEN 1 END) AS sell_trades,
			COUNT(CASE WHEN pnl > 0 THEN 1 END) AS winning_trades,
			COUNT(CASE WHEN pnl < 0 THEN 1 END) AS losing_trades,
			COALESCE(SUM(pnl), 0) AS total_pnl,
			COALESCE(AVG(pnl), 0) AS avg_pnl,
			COALESCE(MAX(pnl), 0) AS best_trade,
			COALESCE(MIN(pnl), 0) AS worst_trade,
			COALESCE(SUM(fee), 0) AS total_fees`).
		Where("session_id = ?", sessionID).
		Scan(&stats).Error

	return stats, err
}

type portfolioExtremes struct {
	Samples  int64
	MinValue *float64
	MaxValue *float64
}

func (r *Reporter) portfolioStats(ctx context.Context, sessionID string) (model.PortfolioStats, error) {
	var row portfolioExtremes

	err := r.db.WithContext(ctx).
		Table("portfolio_states").
		Select("COUNT(*) AS samples, MIN(total_value) AS min_value, MAX(total_value) AS max_value").
		Where("session_id = ?", sessionID).
		Scan(&row).Error
	if err != nil {
		return model.PortfolioStats{}, err
	}

	if row.Samples == 0 || row.MinValue == nil || row.MaxValue == nil {
		return model.PortfolioStats{}, nil
	}

	stats := model.PortfolioStats{
		MinPortfolioValue: row.MinValue,
		MaxPortfolioValue: row.MaxValue,
	}
	if gain, ok := MaxGainPercent(*row.MinValue, *row.MaxValue); ok {
		stats.MaxGainPercent = &gain
	}

	return stats, nil
}

func (r *Reporter) strategyStats(ctx context.Context, sessionID string) ([]model.StrategyStats, error) {
	stats := make([]model.StrategyStats, 0)

	err := r.db.WithContext(ctx).
		Table("trades").
		Select(`COALESCE(strategy, '') AS strategy,
			COUNT(*) AS trades_count,
			COALESCE(SUM(pnl), 0) AS strategy_pnl,
			COALESCE(AVG(pnl), 0) AS avg_pnl,
			COUNT(CASE WHEN pnl > 0 THEN 1 END) * 100.0 / COUNT(*) AS win_rate`).
		Where("session_id = ?", sessionID).
		Group("strategy").
		Order("strategy").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
