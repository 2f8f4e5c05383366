package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/perfreview/goalflow/internal/db"
	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/repository"
	"github.com/stretchr/testify/require"
)

type stores struct {
	goals         repository.GoalRepository
	entries       repository.GoalEntryRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository
}

// storeBackends returns a constructor per storage backend so every lifecycle test runs against both
func storeBackends() map[string]func(t *testing.T) stores {
	return map[string]func(t *testing.T) stores{
		"memory": func(t *testing.T) stores {
			return stores{
				goals:         repository.NewMemoryGoalRepository(),
				entries:       repository.NewMemoryGoalEntryRepository(),
				notifications: repository.NewMemoryNotificationRepository(),
				users:         repository.NewMemoryUserRepository(),
			}
		},
		"sqlite": func(t *testing.T) stores {
			ctx := context.Background()
			dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
			database, err := db.Open(ctx, "sqlite", dsn)
			require.NoError(t, err)
			t.Cleanup(func() { _ = database.Close() })
			require.NoError(t, db.RunMigrations(ctx, database.DB, "sqlite"))

			return stores{
				goals:         repository.NewGoalRepository(database),
				entries:       repository.NewGoalEntryRepository(database),
				notifications: repository.NewNotificationRepository(database),
				users:         repository.NewUserRepository(database),
			}
		},
	}
}

func testDeadline() *time.Time {
	d := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return &d
}

type failingNotifier struct {
	calls int
}

func (n *failingNotifier) Notify(context.Context, string, model.NotificationType, string, string) (*model.Notification, error) {
	n.calls++
	return nil, newStorageError("create notification", errors.New("connection reset"))
}

type recordingNotifier struct {
	calls int
}

func (n *recordingNotifier) Notify(_ context.Context, recipientID string, typ model.NotificationType, message, goalID string) (*model.Notification, error) {
	n.calls++
	return &model.Notification{RecipientID: recipientID, Type: typ, Message: message, RelatedGoalID: goalID}, nil
}

// brokenGoalRepository fails the writes whose error is set and delegates everything else
type brokenGoalRepository struct {
	repository.GoalRepository
	createErr error
	updateErr error
}

func (r brokenGoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.GoalRepository.Create(ctx, goal)
}

func (r brokenGoalRepository) Update(ctx context.Context, goalID string, patch model.GoalPatch) (*model.Goal, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return r.GoalRepository.Update(ctx, goalID, patch)
}

// brokenNotificationRepository cannot store notifications
type brokenNotificationRepository struct {
	repository.NotificationRepository
	err error
}

func (r brokenNotificationRepository) Create(context.Context, *model.Notification) error {
	return r.err
}

type brokenGoalEntryRepository struct {
	repository.GoalEntryRepository
}

func (brokenGoalEntryRepository) Create(context.Context, *model.GoalEntry) error {
	return errors.New("disk I/O error")
}

type sentEmail struct {
	recipient    *model.User
	notification *model.Notification
	goal         *model.Goal
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *recordingMailer) SendGoalNotification(_ context.Context, recipient *model.User, n *model.Notification, goal *model.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{recipient: recipient, notification: n, goal: goal})
	return m.err
}
