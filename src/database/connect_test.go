package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "./paper.db?"+sqliteDefaultParams, sqliteDSN("./paper.db"))
	assert.Equal(t, "file:paper.db?cache=shared", sqliteDSN("file:paper.db?cache=shared"))
}

func TestPostgresDSN(t *testing.T) {
	url := "postgres://trader:secret@db:5432/paper?sslmode=disable"
	assert.Equal(t, url, postgresDSN(Config{DatabaseURL: url}))

	dsn := postgresDSN(Config{
		DatabaseURL: "./paper-trading.db",
		PGHost:      "db",
		PGPort:      "5433",
		PGUser:      "trader",
		PGPassword:  "secret",
		PGDatabase:  "paper",
		PGSSLMode:   "disable",
	})
	assert.Equal(t, "host=db user=trader password=secret dbname=paper port=5433 sslmode=disable", dsn)
}

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor(Config{Driver: DriverSQLite, DatabaseURL: "x.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = dialectorFor(Config{Driver: DriverPostgres, DatabaseURL: "postgres://localhost/paper"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = dialectorFor(Config{Driver: "mysql"})
	require.Error(t, err)
}
