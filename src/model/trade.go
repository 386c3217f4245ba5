package model

import (
	"encoding/json"
	"time"
)

const (
	TradeSideBuy  = "buy"
	TradeSideSell = "sell"
)

// IsValidSide reports whether side is one of the supported trade sides.
func IsValidSide(side string) bool {
	return side == TradeSideBuy || side == TradeSideSell
}

// Trade is a single executed (simulated) trade. Rows are append-only and are
// written by the external trading logic.
type Trade struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	SessionID        string          `gorm:"size:100;not null;index:idx_trades_session_time,priority:1" json:"session_id"`
	TradeID          string          `gorm:"size:100;index" json:"trade_id"`
	Side             string          `gorm:"size:10;not null" json:"side"`
	Asset            string          `gorm:"size:50" json:"asset"`
	Exchange         string          `gorm:"size:100" json:"exchange"`
	Price            float64         `json:"price"`
	Quantity         float64         `json:"quantity"`
	Value            float64         `json:"value"`
	Fee              float64         `json:"fee"`
	FeeRate          *float64        `json:"fee_rate"`
	Pnl              float64         `gorm:"column:pnl" json:"pnl"`
	Strategy         string          `gorm:"size:100;index" json:"strategy"`
	Reason           string          `gorm:"type:text" json:"reason"`
	Confidence       *float64        `json:"confidence"`
	MarketConditions json.RawMessage `gorm:"type:text;serializer:json" json:"market_conditions"`
	Timestamp        time.Time       `gorm:"autoCreateTime;index:idx_trades_session_time,priority:2" json:"timestamp"`
}

func (Trade) TableName() string {
	return "trades"
}

// SaveTradePayload mirrors the trade object produced by the trading engine.
type SaveTradePayload struct {
	ID               string          `json:"id"`
	Side             string          `json:"side"`
	Asset            string          `json:"asset"`
	Exchange         string          `json:"exchange"`
	Price            float64         `json:"price"`
	Quantity         float64         `json:"quantity"`
	Value            float64         `json:"value"`
	Fee              float64         `json:"fee"`
	FeeRate          *float64        `json:"feeRate,omitempty"`
	Pnl              float64         `json:"pnl"`
	Strategy         string          `json:"strategy"`
	Reason           string          `json:"reason"`
	Confidence       *float64        `json:"confidence,omitempty"`
	MarketConditions json.RawMessage `json:"marketConditions,omitempty"`
}

func (p SaveTradePayload) ToModel(sessionID string) *Trade {
	return &Trade{
		SessionID:        sessionID,
		TradeID:          p.ID,
		Side:             p.Side,
		Asset:            p.Asset,
		Exchange:         p.Exchange,
		Price:            p.Price,
		Quantity:         p.Quantity,
		Value:            p.Value,
		Fee:              p.Fee,
		FeeRate:          p.FeeRate,
		Pnl:              p.Pnl,
		Strategy:         p.Strategy,
		Reason:           p.Reason,
		Confidence:       p.Confidence,
		MarketConditions: NullableJSON(p.MarketConditions),
	}
}

// NullableJSON maps an absent or literal null payload to a NULL column.
func NullableJSON(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
