package database

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`  // Expected to hold values like "debug", "info", "warn", "error"
	LogFormat    string `envconfig:"LOG_FORMAT" default:"text"` // Expected to hold values like "json" or "text"
	Driver       string `envconfig:"DB_DRIVER" default:"sqlite"`
	DatabaseURL  string `envconfig:"DATABASE_URL" default:"./paper-trading.db"`
	GormLogLevel int    `envconfig:"GORM_LOG_LEVEL" default:"2"`

	// Used by the postgres driver when DATABASE_URL is not a postgres DSN.
	PGHost     string `envconfig:"PGHOST" default:"localhost"`
	PGPort     string `envconfig:"PGPORT" default:"5432"`
	PGUser     string `envconfig:"PGUSER"`
	PGPassword string `envconfig:"PGPASSWORD"`
	PGDatabase string `envconfig:"PGDATABASE" default:"paper_trading"`
	PGSSLMode  string `envconfig:"PGSSLMODE" default:"disable"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
