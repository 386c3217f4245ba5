package migrations

import (
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var errNoDatabase = errors.New("migrations: nil database")

// DataMigration is one row of the data_migrations ledger.
type DataMigration struct {
	ID        string    `gorm:"primaryKey;size:200;column:id"`
	AppliedAt time.Time `gorm:"not null;column:applied_at"`
}

func (DataMigration) TableName() string { return "data_migrations" }

// Migration is a data change applied once per database, after the schema
// has been auto-migrated.
type Migration struct {
	ID    string
	Apply func(tx *gorm.DB) error
}

// registry is applied in order. IDs are permanent once released.
var registry = []Migration{
	{ID: "00001_seed_default_session", Apply: seedDefaultSession},
}

// Run applies every registered migration missing from the ledger.
func Run(db *gorm.DB) error {
	return apply(db, registry)
}

func apply(db *gorm.DB, pending []Migration) error {
	if db == nil {
		return errNoDatabase
	}
	if err := db.AutoMigrate(&DataMigration{}); err != nil {
		return fmt.Errorf("data migrations ledger: %w", err)
	}

	for _, m := range pending {
		applied, err := RunOnce(db, m)
		if err != nil {
			return err
		}
		if applied {
			logger.WithField("migration", m.ID).Info("Applied data migration")
		}
	}

	return nil
}

// RunOnce applies m inside a transaction unless the ledger already holds
// its ID. The ledger row is written in the same transaction, so a failed
// Apply leaves no trace. It reports whether m ran.
func RunOnce(db *gorm.DB, m Migration) (bool, error) {
	if db == nil {
		return false, errNoDatabase
	}
	if m.ID == "" || m.Apply == nil {
		return false, fmt.Errorf("migrations: incomplete migration %q", m.ID)
	}

	applied := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var seen int64
		if err := tx.Model(&DataMigration{}).Where("id = ?", m.ID).Count(&seen).Error; err != nil {
			return fmt.Errorf("lookup %s: %w", m.ID, err)
		}
		if seen > 0 {
			return nil
		}

		if err := m.Apply(tx); err != nil {
			return fmt.Errorf("apply %s: %w", m.ID, err)
		}
		if err := tx.Create(&DataMigration{ID: m.ID, AppliedAt: time.Now().UTC()}).Error; err != nil {
			return fmt.Errorf("record %s: %w", m.ID, err)
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}
