package repository

import (
	"context"
	"testing"
	"time"

	"github.com/perfreview/goalflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()

	for name, newRepo := range notificationRepoFactories() {
		t.Run(name, func(t *testing.T) {
			t.Run("create_and_list_newest_first", func(t *testing.T) {
				repo := newRepo(t)

				for _, msg := range []string{"first", "second", "third"} {
					n := &model.Notification{
						RecipientID:   "u1",
						Type:          model.NotificationGoalStatusUpdate,
						Message:       msg,
						RelatedGoalID: "g1",
						Read:          true, // ignored on create
					}
					require.NoError(t, repo.Create(ctx, n))
					assert.NotEmpty(t, n.ID)
					assert.False(t, n.Read)
					time.Sleep(time.Millisecond)
				}
				require.NoError(t, repo.Create(ctx, &model.Notification{
					RecipientID:   "m1",
					Type:          model.NotificationGoalSubmission,
					Message:       "other",
					RelatedGoalID: "g1",
				}))

				list, err := repo.ByRecipient(ctx, "u1")
				require.NoError(t, err)
				require.Len(t, list, 3)
				assert.Equal(t, "third", list[0].Message)
				assert.Equal(t, "second", list[1].Message)
				assert.Equal(t, "first", list[2].Message)
				for _, n := range list {
					assert.Equal(t, "u1", n.RecipientID)
					assert.Equal(t, model.NotificationGoalStatusUpdate, n.Type)
					assert.Equal(t, "g1", n.RelatedGoalID)
					assert.False(t, n.Read)
				}

				empty, err := repo.ByRecipient(ctx, "nobody")
				require.NoError(t, err)
				assert.Empty(t, empty)
			})

			t.Run("mark_read_is_idempotent", func(t *testing.T) {
				repo := newRepo(t)
				n := &model.Notification{
					RecipientID:   "u1",
					Type:          model.NotificationGoalStatusUpdate,
					Message:       "hello",
					RelatedGoalID: "g1",
				}
				require.NoError(t, repo.Create(ctx, n))

				count, err := repo.CountUnread(ctx, "u1")
				require.NoError(t, err)
				assert.Equal(t, 1, count)

				require.NoError(t, repo.MarkRead(ctx, n.ID))
				require.NoError(t, repo.MarkRead(ctx, n.ID))

				list, err := repo.ByRecipient(ctx, "u1")
				require.NoError(t, err)
				require.Len(t, list, 1)
				assert.True(t, list[0].Read)

				count, err = repo.CountUnread(ctx, "u1")
				require.NoError(t, err)
				assert.Equal(t, 0, count)
			})

			t.Run("mark_read_missing", func(t *testing.T) {
				repo := newRepo(t)
				assert.ErrorIs(t, repo.MarkRead(ctx, "nope"), ErrNotificationNotFound)
			})
		})
	}
}
