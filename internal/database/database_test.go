package database_test

import (
	"fmt"
	"testing"

	"juicebox/internal/config"
	"juicebox/internal/database"
	"juicebox/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenAndMigrate_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()),
		MaxOpenConns: 1,
	}

	db, err := database.Open(cfg, false, zap.NewNop())
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.Migrate(db))
	// Migrating twice is harmless.
	require.NoError(t, database.Migrate(db))

	for _, table := range []string{"users", "tags", "posts", "post_tags"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Tag{}, "Name"))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "Username"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"}, false, zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
