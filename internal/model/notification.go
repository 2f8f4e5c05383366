package model

import "time"

type NotificationType string

const (
	NotificationGoalSubmission   NotificationType = "goal_submission"
	NotificationGoalStatusUpdate NotificationType = "goal_status_update"
)

type Notification struct {
	ID            string           `db:"id" json:"id"`
	RecipientID   string           `db:"recipient_id" json:"recipientId"`
	Type          NotificationType `db:"type" json:"type"`
	Message       string           `db:"message" json:"message"`
	RelatedGoalID string           `db:"related_goal_id" json:"relatedGoalId"`
	Read          bool             `db:"is_read" json:"read"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
}
