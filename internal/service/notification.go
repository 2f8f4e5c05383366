package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/repository"
)

// Mailer delivers a copy of a notification outside the application.
type Mailer interface {
	SendGoalNotification(ctx context.Context, recipient *model.User, notification *model.Notification, goal *model.Goal) error
}

type NotificationService struct {
	repo   repository.NotificationRepository
	users  repository.UserRepository
	goals  repository.GoalRepository
	mailer Mailer
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// WithEmail enables email delivery. Recipients are resolved through users; goals supply
// the details rendered into the message.
func (s *NotificationService) WithEmail(mailer Mailer, users repository.UserRepository, goals repository.GoalRepository) *NotificationService {
	s.mailer = mailer
	s.users = users
	s.goals = goals
	return s
}

func (s *NotificationService) Notify(ctx context.Context, recipientID string, typ model.NotificationType, message, relatedGoalID string) (*model.Notification, error) {
	notification := &model.Notification{
		RecipientID:   recipientID,
		Type:          typ,
		Message:       message,
		RelatedGoalID: relatedGoalID,
	}

	err := s.repo.Create(ctx, notification)
	if err != nil {
		return nil, newStorageError("create notification", err)
	}

	slog.Debug("notification recorded", "notification_id", notification.ID, "type", typ, "recipient_id", recipientID)

	s.deliverEmail(ctx, notification)
	return notification, nil
}

// ListForRecipient returns the recipient's notifications, newest first.
func (s *NotificationService) ListForRecipient(ctx context.Context, recipientID string) ([]*model.Notification, error) {
	notifications, err := s.repo.ByRecipient(ctx, recipientID)
	if err != nil {
		return nil, newStorageError("list notifications", err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read. Marking it again is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID string) error {
	err := s.repo.MarkRead(ctx, notificationID)
	if errors.Is(err, repository.ErrNotificationNotFound) {
		return &NotFoundError{Entity: "notification", ID: notificationID}
	}
	if err != nil {
		return newStorageError("mark notification read", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, newStorageError("count unread notifications", err)
	}
	return count, nil
}

// deliverEmail is best effort: the stored notification is the source of truth.
func (s *NotificationService) deliverEmail(ctx context.Context, n *model.Notification) {
	if s.mailer == nil || s.users == nil || s.goals == nil {
		return
	}

	recipient, err := s.users.ByID(ctx, n.RecipientID)
	if errors.Is(err, repository.ErrUserNotFound) {
		slog.Debug("notification recipient not in directory, skipping email", "recipient_id", n.RecipientID)
		return
	}
	if err != nil {
		slog.Warn("failed to resolve notification recipient", "error", err, "recipient_id", n.RecipientID)
		return
	}

	goal, err := s.goals.ByID(ctx, n.RelatedGoalID)
	if err != nil {
		slog.Warn("failed to load goal for notification email", "error", err, "goal_id", n.RelatedGoalID)
		return
	}

	err = s.mailer.SendGoalNotification(ctx, recipient, n, goal)
	if err != nil {
		slog.Warn("failed to email notification", "error", err, "notification_id", n.ID, "recipient_id", n.RecipientID)
	}
}
