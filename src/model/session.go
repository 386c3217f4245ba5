package model

import "time"

// DefaultSessionID is the session used by clients that never created one explicitly.
const DefaultSessionID = "default"

// TradingSession is one isolated paper-trading run.
type TradingSession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   string    `gorm:"size:100;not null;uniqueIndex" json:"session_id"`
	SessionName string    `gorm:"size:255" json:"session_name"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	// Child rows reference session_id; deleting a session removes its history.
	Configs   []TradingConfig  `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Trades    []Trade          `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Portfolio []PortfolioState `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Logs      []AgentLog       `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName allows you to control the exact table name for sessions.
func (TradingSession) TableName() string {
	return "trading_sessions"
}

// SessionSummary is a session enriched with its trade rollups.
type SessionSummary struct {
	ID            uint      `json:"id"`
	SessionID     string    `json:"session_id"`
	SessionName   string    `json:"session_name"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	TotalTrades   int64     `json:"total_trades"`
	WinningTrades int64     `json:"winning_trades"`
	TotalPnl      float64   `json:"total_pnl"`
}

type CreateSessionPayload struct {
	SessionID   string `json:"session_id"`
	SessionName string `json:"session_name"`
	Notes       string `json:"notes"`
}
