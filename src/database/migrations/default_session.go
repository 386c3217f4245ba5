package migrations

import (
	"papertrading/src/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seedDefaultSession makes sure the session used by clients that never
// created one exists, so their writes satisfy the session foreign keys.
func seedDefaultSession(db *gorm.DB) error {
	session := model.TradingSession{
		SessionID:   model.DefaultSessionID,
		SessionName: "Default session",
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(&session).Error
}
