package service

import (
	"context"
	"errors"
	"testing"

	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService(t *testing.T) {
	ctx := context.Background()

	for name, newStores := range storeBackends() {
		t.Run(name, func(t *testing.T) {
			t.Run("notify_and_list_newest_first", func(t *testing.T) {
				notifications := NewNotificationService(newStores(t).notifications)

				first, err := notifications.Notify(ctx, "u1", model.NotificationGoalSubmission, "first", "g1")
				require.NoError(t, err)
				assert.NotEmpty(t, first.ID)
				assert.False(t, first.Read)
				assert.False(t, first.CreatedAt.IsZero())

				_, err = notifications.Notify(ctx, "u1", model.NotificationGoalStatusUpdate, "second", "g1")
				require.NoError(t, err)
				_, err = notifications.Notify(ctx, "u2", model.NotificationGoalStatusUpdate, "other", "g2")
				require.NoError(t, err)

				inbox, err := notifications.ListForRecipient(ctx, "u1")
				require.NoError(t, err)
				require.Len(t, inbox, 2)
				assert.Equal(t, "second", inbox[0].Message)
				assert.Equal(t, "first", inbox[1].Message)

				empty, err := notifications.ListForRecipient(ctx, "nobody")
				require.NoError(t, err)
				assert.Empty(t, empty)
			})

			t.Run("mark_read_is_idempotent", func(t *testing.T) {
				notifications := NewNotificationService(newStores(t).notifications)

				n, err := notifications.Notify(ctx, "u1", model.NotificationGoalSubmission, "hello", "g1")
				require.NoError(t, err)
				_, err = notifications.Notify(ctx, "u1", model.NotificationGoalSubmission, "again", "g2")
				require.NoError(t, err)

				count, err := notifications.UnreadCount(ctx, "u1")
				require.NoError(t, err)
				assert.Equal(t, 2, count)

				require.NoError(t, notifications.MarkRead(ctx, n.ID))
				require.NoError(t, notifications.MarkRead(ctx, n.ID))

				count, err = notifications.UnreadCount(ctx, "u1")
				require.NoError(t, err)
				assert.Equal(t, 1, count)

				inbox, err := notifications.ListForRecipient(ctx, "u1")
				require.NoError(t, err)
				for _, item := range inbox {
					assert.Equal(t, item.ID == n.ID, item.Read)
				}
			})

			t.Run("mark_read_unknown", func(t *testing.T) {
				notifications := NewNotificationService(newStores(t).notifications)

				err := notifications.MarkRead(ctx, "missing")
				require.ErrorIs(t, err, ErrNotFound)

				var nf *NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "notification", nf.Entity)
			})
		})
	}
}

func TestNotificationServiceStoreFailure(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("database is locked")
	mailer := &recordingMailer{}
	notifications := NewNotificationService(brokenNotificationRepository{
		NotificationRepository: repository.NewMemoryNotificationRepository(),
		err:                    cause,
	}).WithEmail(mailer, repository.NewMemoryUserRepository(), repository.NewMemoryGoalRepository())

	n, err := notifications.Notify(ctx, "u1", model.NotificationGoalSubmission, "first", "g1")
	assert.Nil(t, n)
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, cause)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create notification", se.Op)
	assert.Empty(t, mailer.sent)
}

func TestNotificationServiceEmail(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, mailer *recordingMailer) (*GoalService, repository.UserRepository) {
		users := repository.NewMemoryUserRepository()
		goalRepo := repository.NewMemoryGoalRepository()
		notifications := NewNotificationService(repository.NewMemoryNotificationRepository()).
			WithEmail(mailer, users, goalRepo)
		return NewGoalService(goalRepo, notifications), users
	}

	t.Run("delivers_to_directory_users", func(t *testing.T) {
		mailer := &recordingMailer{}
		goals, users := setup(t, mailer)

		manager := &model.User{Email: "mia@example.com", Name: "Mia", Role: model.RoleManager}
		require.NoError(t, users.Create(ctx, manager))

		goal, err := goals.Submit(ctx, SubmitGoalInput{OwnerID: "u1", ManagerID: manager.ID, Title: "Improve docs", Deadline: testDeadline()})
		require.NoError(t, err)

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, manager.ID, mailer.sent[0].recipient.ID)
		assert.Equal(t, model.NotificationGoalSubmission, mailer.sent[0].notification.Type)
		assert.Equal(t, goal.ID, mailer.sent[0].goal.ID)
	})

	t.Run("skips_unknown_recipients", func(t *testing.T) {
		mailer := &recordingMailer{}
		goals, _ := setup(t, mailer)

		_, err := goals.Submit(ctx, SubmitGoalInput{OwnerID: "u1", ManagerID: "m1", Title: "Improve docs", Deadline: testDeadline()})
		require.NoError(t, err)
		assert.Empty(t, mailer.sent)
	})

	t.Run("mail_failure_keeps_notification", func(t *testing.T) {
		mailer := &recordingMailer{err: errors.New("smtp unavailable")}
		users := repository.NewMemoryUserRepository()
		goalRepo := repository.NewMemoryGoalRepository()
		notifications := NewNotificationService(repository.NewMemoryNotificationRepository()).
			WithEmail(mailer, users, goalRepo)
		goals := NewGoalService(goalRepo, notifications)

		owner := &model.User{Email: "owen@example.com", Name: "Owen", Role: model.RoleEmployee}
		require.NoError(t, users.Create(ctx, owner))

		goal, err := goals.Submit(ctx, SubmitGoalInput{OwnerID: owner.ID, Title: "Improve docs", Deadline: testDeadline()})
		require.NoError(t, err)

		_, err = goals.Decide(ctx, goal.ID, "m1", model.GoalStatusApproved, "")
		require.NoError(t, err)
		require.Len(t, mailer.sent, 1)

		inbox, err := notifications.ListForRecipient(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, inbox, 1)
	})
}
