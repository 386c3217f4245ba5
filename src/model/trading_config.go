package model

import "time"

// TradingConfig is one configuration snapshot of a session. Snapshots are
// append-only; the most recent one is the current configuration.
type TradingConfig struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	SessionID           string    `gorm:"size:100;not null;index" json:"session_id"`
	Exchange            string    `gorm:"size:100" json:"exchange"`
	Asset               string    `gorm:"size:50" json:"asset"`
	Strategy            string    `gorm:"size:100" json:"strategy"`
	InitialCapital      float64   `json:"initial_capital"`
	TradingSpeed        string    `gorm:"size:50" json:"trading_speed"`
	RiskLevel           string    `gorm:"size:50" json:"risk_level"`
	PositionSize        float64   `json:"position_size"`
	AIPersonality       string    `gorm:"column:ai_personality;size:100" json:"ai_personality"`
	ChartOverlayEnabled bool      `gorm:"column:chart_overlay_enabled;not null" json:"chart_overlay_enabled"`
	CreatedAt           time.Time `gorm:"index" json:"created_at"`
}

func (TradingConfig) TableName() string {
	return "trading_configs"
}

// SaveConfigPayload is the request body accepted by the config endpoint.
type SaveConfigPayload struct {
	Exchange       string  `json:"exchange"`
	Asset          string  `json:"asset"`
	Strategy       string  `json:"strategy"`
	InitialCapital float64 `json:"initialCapital"`
	TradingSpeed   string  `json:"tradingSpeed"`
	RiskLevel      string  `json:"riskLevel"`
	PositionSize   float64 `json:"positionSize"`
	AIPersonality  string  `json:"aiPersonality"`
	ChartOverlay   *bool   `json:"chartOverlay,omitempty"`
}

// ToModel builds the snapshot row. A missing chartOverlay is stored as false.
func (p SaveConfigPayload) ToModel(sessionID string) *TradingConfig {
	cfg := &TradingConfig{
		SessionID:      sessionID,
		Exchange:       p.Exchange,
		Asset:          p.Asset,
		Strategy:       p.Strategy,
		InitialCapital: p.InitialCapital,
		TradingSpeed:   p.TradingSpeed,
		RiskLevel:      p.RiskLevel,
		PositionSize:   p.PositionSize,
		AIPersonality:  p.AIPersonality,
	}
	if p.ChartOverlay != nil {
		cfg.ChartOverlayEnabled = *p.ChartOverlay
	}
	return cfg
}
