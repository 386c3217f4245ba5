// Package dbtest opens throwaway stores for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"papertrading/src/database"
)

// NewSQLite returns a migrated, file-backed SQLite store that lives for the duration of t.
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.InitMainDB(database.Config{
		Driver:       database.DriverSQLite,
		DatabaseURL:  filepath.Join(t.TempDir(), "paper-trading-test.db"),
		GormLogLevel: int(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// NewMock returns a gorm handle speaking the postgres dialect to sqlmock.
func NewMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db, mock
}
