package model

import "time"

// PortfolioState is a timestamped snapshot of a session's simulated holdings.
type PortfolioState struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	SessionID            string    `gorm:"size:100;not null;index:idx_portfolio_session_time,priority:1" json:"session_id"`
	Cash                 float64   `json:"cash"`
	TotalValue           float64   `json:"total_value"`
	InitialValue         float64   `json:"initial_value"`
	DayStartValue        float64   `json:"day_start_value"`
	PositionAsset        *string   `gorm:"size:50" json:"position_asset"`
	PositionQuantity     *float64  `json:"position_quantity"`
	PositionAveragePrice *float64  `json:"position_average_price"`
	PositionEntryTime    *int64    `json:"position_entry_time"` // unix ms
	TotalPnl             float64   `json:"total_pnl"`
	DailyPnl             float64   `json:"daily_pnl"`
	UnrealizedPnl        float64   `json:"unrealized_pnl"`
	Timestamp            time.Time `gorm:"autoCreateTime;index:idx_portfolio_session_time,priority:2" json:"timestamp"`
}

func (PortfolioState) TableName() string {
	return "portfolio_states"
}

type PositionPayload struct {
	Asset        string  `json:"asset"`
	Quantity     float64 `json:"quantity"`
	AveragePrice float64 `json:"averagePrice"`
	EntryTime    int64   `json:"entryTime"`
}

type SavePortfolioPayload struct {
	Cash          float64          `json:"cash"`
	TotalValue    float64          `json:"totalValue"`
	InitialValue  float64          `json:"initialValue"`
	DayStartValue float64          `json:"dayStartValue"`
	Position      *PositionPayload `json:"position,omitempty"`
	TotalPnl      float64          `json:"totalPnl"`
	DailyPnl      float64          `json:"dailyPnl"`
	UnrealizedPnl float64          `json:"unrealizedPnl"`
}

// ToModel flattens the optional open position into nullable columns.
func (p SavePortfolioPayload) ToModel(sessionID string) *PortfolioState {
	state := &PortfolioState{
		SessionID:     sessionID,
		Cash:          p.Cash,
		TotalValue:    p.TotalValue,
		InitialValue:  p.InitialValue,
		DayStartValue: p.DayStartValue,
		TotalPnl:      p.TotalPnl,
		DailyPnl:      p.DailyPnl,
		UnrealizedPnl: p.UnrealizedPnl,
	}
	if p.Position != nil {
		pos := *p.Position
		state.PositionAsset = &pos.Asset
		state.PositionQuantity = &pos.Quantity
		state.PositionAveragePrice = &pos.AveragePrice
		state.PositionEntryTime = &pos.EntryTime
	}
	return state
}
