package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/perfreview/goalflow/internal/model"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ByRecipient(ctx context.Context, recipientID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.Read = false
	n.CreatedAt = time.Now()

	query := `INSERT INTO notifications (id, recipient_id, type, message, related_goal_id, is_read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.RecipientID,
		n.Type,
		n.Message,
		n.RelatedGoalID,
		n.Read,
		n.CreatedAt,
	)

	return err
}

// ByRecipient returns the recipient's notifications, newest first.
func (r *notificationRepository) ByRecipient(ctx context.Context, recipientID string) ([]*model.Notification, error) {
	notifications := []*model.Notification{}
	query := `SELECT * FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &notifications, query, recipientID)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID string) error {
	query := `UPDATE notifications SET is_read = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, true, notificationID)
	if err != nil {
		return err
	}

	// Matched rows count even when the flag was already set
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = $2`
	err := r.db.QueryRowContext(ctx, query, recipientID, false).Scan(&count)
	return count, err
}
