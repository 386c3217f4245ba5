package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDefaultParams turns on referential integrity and WAL for go-sqlite3.
const sqliteDefaultParams = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

func dialectorFor(config Config) (gorm.Dialector, error) {
	switch config.Driver {
	case DriverSQLite:
		return sqlite.Open(sqliteDSN(config.DatabaseURL)), nil
	case DriverPostgres:
		return postgres.Open(postgresDSN(config)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?" + sqliteDefaultParams
}

// postgresDSN prefers an explicit postgres URL and otherwise assembles the
// DSN from the libpq PG* variables.
func postgresDSN(config Config) string {
	if strings.HasPrefix(config.DatabaseURL, "postgres://") || strings.HasPrefix(config.DatabaseURL, "postgresql://") ||
		strings.Contains(config.DatabaseURL, "host=") {
		return config.DatabaseURL
	}

	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.PGHost,
		config.PGUser,
		config.PGPassword,
		config.PGDatabase,
		config.PGPort,
		config.PGSSLMode,
	)
}
