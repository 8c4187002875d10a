package database

import (
	"path/filepath"
	"testing"

	"budget/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on&_busy_timeout=5000", SQLiteDSN(":memory:"))
	assert.Equal(t, "file:test.db?cache=shared&_foreign_keys=on&_busy_timeout=5000", SQLiteDSN("file:test.db?cache=shared"))
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "budget.db")
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", Path: path},
		Log:      config.LogConfig{Level: "silent"},
	}

	db, err := Open(cfg)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))
	for _, table := range []string{"users", "categories", "transactions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{Database: config.DatabaseConfig{Driver: "oracle"}})
	assert.Error(t, err)
}
