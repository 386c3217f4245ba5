package model

import "time"

// TradeStats aggregates every trade of a session.
type TradeStats struct {
	TotalTrades   int64   `json:"total_trades"`
	BuyTrades     int64   `json:"buy_trades"`
	SellTrades    int64   `json:"sell_trades"`
	WinningTrades int64   `json:"winning_trades"`
	LosingTrades  int64   `json:"losing_trades"`
	TotalPnl      float64 `json:"total_pnl"`
	AvgPnl        float64 `json:"avg_pnl"`
	BestTrade     float64 `json:"best_trade"`
	WorstTrade    float64 `json:"worst_trade"`
	TotalFees     float64 `json:"total_fees"`
	WinRate       float64 `gorm:"-" json:"win_rate"`
}

// PortfolioStats is empty (marshals to {}) when the session has no snapshots.
type PortfolioStats struct {
	MinPortfolioValue *float64 `json:"min_portfolio_value,omitempty"`
	MaxPortfolioValue *float64 `json:"max_portfolio_value,omitempty"`
	MaxGainPercent    *float64 `json:"max_gain_percent,omitempty"`
}

type StrategyStats struct {
	Strategy    string  `json:"strategy"`
	TradesCount int64   `json:"trades_count"`
	StrategyPnl float64 `json:"strategy_pnl"`
	AvgPnl      float64 `json:"avg_pnl"`
	WinRate     float64 `json:"win_rate"`
}

type Analytics struct {
	Trades     TradeStats      `json:"trades"`
	Portfolio  PortfolioStats  `json:"portfolio"`
	Strategies []StrategyStats `json:"strategies"`
}

// SessionExport is the full dump of one session.
type SessionExport struct {
	Session    *TradingSession  `json:"session"`
	Config     *TradingConfig   `json:"config"`
	Trades     []Trade          `json:"trades"`
	Portfolio  []PortfolioState `json:"portfolio"`
	Logs       []AgentLog       `json:"logs"`
	ExportedAt time.Time        `json:"exported_at"`
}
