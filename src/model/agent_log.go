package model

import (
	"encoding/json"
	"time"
)

const (
	LogTypeThought      = "thought"
	LogTypeAction       = "action"
	LogTypeError        = "error"
	LogTypeConfigChange = "config_change"
)

// AgentLog is an agent/system log entry. Data holds an optional structured
// payload serialized as JSON text.
type AgentLog struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SessionID string          `gorm:"size:100;not null;index:idx_agent_logs_session_time,priority:1" json:"session_id"`
	LogType   string          `gorm:"column:log_type;size:50;not null;index" json:"log_type"`
	Content   string          `gorm:"type:text" json:"content"`
	Data      json.RawMessage `gorm:"type:text;serializer:json" json:"data,omitempty"`
	Timestamp time.Time       `gorm:"autoCreateTime;index:idx_agent_logs_session_time,priority:2" json:"timestamp"`
}

func (AgentLog) TableName() string {
	return "agent_logs"
}

type SaveLogPayload struct {
	Type    string          `json:"type"`
	Content string          `json:"content"`
	Data    json.RawMessage `json:"data,omitempty"`
}
