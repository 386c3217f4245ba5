package database

import (
	"fmt"
	"time"

	"papertrading/src/database/migrations"
	"papertrading/src/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitMainDB opens the store described by config and brings its schema up to date.
// It is called once at startup; the returned handle is shared by every repository.
func InitMainDB(config Config) (*gorm.DB, error) {
	db, err := Open(config)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Open connects to the configured driver without touching the schema.
func Open(config Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(config)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector,
		&gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", config.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB from GORM: %w", err)
	}

	switch config.Driver {
	case DriverSQLite:
		// SQLite serializes writers itself; one connection keeps PRAGMAs consistent.
		sqlDB.SetMaxOpenConns(1)
	default:
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(1 * time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping %s database: %w", config.Driver, err)
	}

	logrus.WithFields(logrus.Fields{"driver": config.Driver}).Info("[database] connection established")

	return db, nil
}

// Migrate creates missing tables, columns and indexes, then applies the
// recorded data migrations. It is safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.TradingSession{},
		&model.TradingConfig{},
		&model.Trade{},
		&model.PortfolioState{},
		&model.AgentLog{},
		&model.ExchangeFee{},
		&migrations.DataMigration{},
	); err != nil {
		return fmt.Errorf("failed to run schema migrations: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to run data migrations: %w", err)
	}

	logrus.Info("[database] migrations completed")

	return nil
}
