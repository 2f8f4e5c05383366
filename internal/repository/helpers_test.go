package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/perfreview/goalflow/internal/db"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens a migrated SQLite database in a temp directory
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	database, err := db.Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(ctx, database.DB, "sqlite"))
	return database
}

type goalRepoFactory func(t *testing.T) GoalRepository

func goalRepoFactories() map[string]goalRepoFactory {
	return map[string]goalRepoFactory{
		"sql": func(t *testing.T) GoalRepository {
			return NewGoalRepository(setupTestDB(t))
		},
		"memory": func(t *testing.T) GoalRepository {
			return NewMemoryGoalRepository()
		},
	}
}

type notificationRepoFactory func(t *testing.T) NotificationRepository

func notificationRepoFactories() map[string]notificationRepoFactory {
	return map[string]notificationRepoFactory{
		"sql": func(t *testing.T) NotificationRepository {
			return NewNotificationRepository(setupTestDB(t))
		},
		"memory": func(t *testing.T) NotificationRepository {
			return NewMemoryNotificationRepository()
		},
	}
}

type userRepoFactory func(t *testing.T) UserRepository

func userRepoFactories() map[string]userRepoFactory {
	return map[string]userRepoFactory{
		"sql": func(t *testing.T) UserRepository {
			return NewUserRepository(setupTestDB(t))
		},
		"memory": func(t *testing.T) UserRepository {
			return NewMemoryUserRepository()
		},
	}
}
