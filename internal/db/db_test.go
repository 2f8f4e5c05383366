package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDriver(t *testing.T) {
	tests := map[string]string{
		"sqlite":   DriverSQLite,
		"SQLite3":  DriverSQLite,
		"postgres": DriverPostgres,
		"pgx":      DriverPostgres,
	}
	for in, want := range tests {
		got, err := NormalizeDriver(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := NormalizeDriver("mysql")
	assert.Error(t, err)
}

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "goals.db")

	database, err := Open(ctx, "sqlite", path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(database) })

	require.NoError(t, RunMigrations(ctx, database.DB, "sqlite"))

	version, err := Version(ctx, database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(4), version)

	var tables []string
	err = database.SelectContext(ctx, &tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'goals', 'goal_entries', 'notifications') ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"goal_entries", "goals", "notifications", "users"}, tables)

	// Re-running is a no-op
	require.NoError(t, RunMigrations(ctx, database.DB, "sqlite"))

	require.NoError(t, MigrateDown(ctx, database.DB, "sqlite"))
	version, err = Version(ctx, database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported database driver")
}
