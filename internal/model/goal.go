package model

import (
	"time"
)

type GoalStatus string

const (
	GoalStatusPending   GoalStatus = "pending"
	GoalStatusApproved  GoalStatus = "approved"
	GoalStatusRejected  GoalStatus = "rejected"
	GoalStatusCompleted GoalStatus = "completed"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusPending, GoalStatusApproved, GoalStatusRejected, GoalStatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Goal struct {
	ID          string     `db:"id" json:"id"`
	OwnerID     string     `db:"owner_id" json:"ownerId"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Deadline    *time.Time `db:"deadline" json:"deadline,omitempty"`
	Priority    Priority   `db:"priority" json:"priority"`
	Status      GoalStatus `db:"status" json:"status"`
	Feedback    *string    `db:"feedback" json:"feedback,omitempty"`
	CurrentStep int        `db:"current_step" json:"currentStep"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// GoalPatch holds the fields to merge into a stored goal. Nil fields are left untouched.
// ExpectStatus and ExpectStep, when set, make the update conditional on the stored values.
type GoalPatch struct {
	Title        *string
	Description  *string
	Deadline     *time.Time
	Priority     *Priority
	Status       *GoalStatus
	Feedback     *string
	CurrentStep  *int
	ExpectStatus *GoalStatus
	ExpectStep   *int
}

// Conditional reports whether the patch carries a precondition.
func (p GoalPatch) Conditional() bool {
	return p.ExpectStatus != nil || p.ExpectStep != nil
}

// Apply merges p into g. It does not touch UpdatedAt.
func (p GoalPatch) Apply(g *Goal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Deadline != nil {
		d := *p.Deadline
		g.Deadline = &d
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.Feedback != nil {
		f := *p.Feedback
		g.Feedback = &f
	}
	if p.CurrentStep != nil {
		g.CurrentStep = *p.CurrentStep
	}
}

type GoalFilter struct {
	OwnerID string
	Status  GoalStatus
}

func (f GoalFilter) Match(g *Goal) bool {
	if f.OwnerID != "" && g.OwnerID != f.OwnerID {
		return false
	}
	if f.Status != "" && g.Status != f.Status {
		return false
	}
	return true
}
