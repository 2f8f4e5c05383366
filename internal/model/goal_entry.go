package model

import (
	"time"
)

// MaxProgressStep is the step that marks a goal as fully done.
const MaxProgressStep = 100

// GoalEntry records one completed progress step of a goal.
type GoalEntry struct {
	ID         string    `db:"id" json:"id"`
	GoalID     string    `db:"goal_id" json:"goalId"`
	Step       int       `db:"step" json:"step"`
	Note       string    `db:"note" json:"note"`
	RecordedBy string    `db:"recorded_by" json:"recordedBy"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
