package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/repository"
	"github.com/perfreview/goalflow/internal/validation"
)

// Notifier records a notification for one recipient.
type Notifier interface {
	Notify(ctx context.Context, recipientID string, typ model.NotificationType, message, relatedGoalID string) (*model.Notification, error)
}

type SubmitGoalInput struct {
	OwnerID string
	// ManagerID receives the submission notification. Empty means nobody is notified.
	ManagerID   string
	Title       string
	Description string
	Deadline    *time.Time
	Priority    model.Priority
}

// GoalService drives the goal approval lifecycle:
//
//	pending -> approved -> completed
//	pending -> rejected
//	pending | approved -> completed (owner records the final progress step)
//
// Every transition is written with a status precondition, so concurrent calls on the
// same goal cannot both succeed.
type GoalService struct {
	repo     repository.GoalRepository
	entries  repository.GoalEntryRepository
	notifier Notifier
}

func NewGoalService(repo repository.GoalRepository, notifier Notifier) *GoalService {
	return &GoalService{
		repo:     repo,
		notifier: notifier,
	}
}

// WithProgress enables the step history kept by RecordProgress.
func (s *GoalService) WithProgress(entries repository.GoalEntryRepository) *GoalService {
	s.entries = entries
	return s
}

func (s *GoalService) Submit(ctx context.Context, input SubmitGoalInput) (*model.Goal, error) {
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, &ValidationError{Field: "ownerId", Message: "owner is required"}
	}

	err := validation.ValidateGoalTitle(input.Title)
	if err != nil {
		return nil, newValidationError("title", err)
	}

	err = validation.ValidateDeadline(input.Deadline)
	if err != nil {
		return nil, newValidationError("deadline", err)
	}

	priority, err := validation.ParsePriority(string(input.Priority))
	if err != nil {
		return nil, newValidationError("priority", err)
	}

	goal := &model.Goal{
		OwnerID:     input.OwnerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Deadline:    input.Deadline,
		Priority:    priority,
		Status:      model.GoalStatusPending,
	}

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, newStorageError("create goal", err)
	}

	slog.Info("goal submitted", "goal_id", goal.ID, "owner_id", goal.OwnerID, "manager_id", input.ManagerID)

	if input.ManagerID == "" {
		slog.Warn("goal submitted without a manager, skipping notification", "goal_id", goal.ID, "owner_id", goal.OwnerID)
		return goal, nil
	}

	s.notify(ctx, input.ManagerID, model.NotificationGoalSubmission, submissionMessage(goal), goal.ID)
	return goal, nil
}

func (s *GoalService) Get(ctx context.Context, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, s.lookupError(goalID, err)
	}
	return goal, nil
}

// List returns goals matching the filter in submission order.
func (s *GoalService) List(ctx context.Context, filter model.GoalFilter) ([]*model.Goal, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", filter.Status)}
	}

	goals, err := s.repo.Goals(ctx, filter)
	if err != nil {
		return nil, newStorageError("list goals", err)
	}
	return goals, nil
}

// Decide approves or rejects a pending goal and notifies its owner.
func (s *GoalService) Decide(ctx context.Context, goalID, approverID string, status model.GoalStatus, feedback string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, s.lookupError(goalID, err)
	}

	if status != model.GoalStatusApproved && status != model.GoalStatusRejected {
		return nil, &InvalidStatusError{GoalID: goalID, Requested: string(status)}
	}

	if goal.Status != model.GoalStatusPending {
		return nil, &InvalidStatusError{GoalID: goalID, Current: string(goal.Status), Requested: string(status)}
	}

	feedback = strings.TrimSpace(feedback)
	err = validation.ValidateFeedback(feedback)
	if err != nil {
		return nil, newValidationError("feedback", err)
	}

	patch := model.GoalPatch{
		Status:       &status,
		ExpectStatus: statusRef(model.GoalStatusPending),
	}
	if feedback != "" {
		patch.Feedback = &feedback
	}

	updated, err := s.transition(ctx, goalID, patch, string(status))
	if err != nil {
		return nil, err
	}

	slog.Info("goal decided", "goal_id", goalID, "approver_id", approverID, "status", status)

	s.notify(ctx, updated.OwnerID, model.NotificationGoalStatusUpdate, statusUpdateMessage(updated), updated.ID)
	return updated, nil
}

// MarkCompleted closes an approved goal. It does not notify anyone.
func (s *GoalService) MarkCompleted(ctx context.Context, goalID, actorID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, s.lookupError(goalID, err)
	}

	if goal.Status != model.GoalStatusApproved {
		return nil, &InvalidStatusError{GoalID: goalID, Current: string(goal.Status), Requested: string(model.GoalStatusCompleted)}
	}

	updated, err := s.transition(ctx, goalID, model.GoalPatch{
		Status:       statusRef(model.GoalStatusCompleted),
		ExpectStatus: statusRef(model.GoalStatusApproved),
	}, string(model.GoalStatusCompleted))
	if err != nil {
		return nil, err
	}

	slog.Info("goal completed", "goal_id", goalID, "actor_id", actorID)
	return updated, nil
}

// RecordProgress advances the owner's goal by one step. Steps must be recorded in order
// starting at 1. Reaching MaxProgressStep completes the goal from pending or approved.
func (s *GoalService) RecordProgress(ctx context.Context, goalID, actorID string, step int, note string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, s.lookupError(goalID, err)
	}

	if goal.OwnerID != actorID {
		return nil, ErrForbidden
	}

	requested := fmt.Sprintf("step %d", step)
	if step == model.MaxProgressStep {
		requested = string(model.GoalStatusCompleted)
	}

	if goal.Status != model.GoalStatusPending && goal.Status != model.GoalStatusApproved {
		return nil, &InvalidStatusError{GoalID: goalID, Current: string(goal.Status), Requested: requested}
	}

	if step != goal.CurrentStep+1 {
		return nil, &ValidationError{Field: "step", Message: fmt.Sprintf("expected step %d, got %d", goal.CurrentStep+1, step)}
	}

	note = strings.TrimSpace(note)
	err = validation.ValidateProgressNote(note)
	if err != nil {
		return nil, newValidationError("note", err)
	}

	patch := model.GoalPatch{
		CurrentStep:  &step,
		ExpectStatus: statusRef(goal.Status),
		ExpectStep:   &goal.CurrentStep,
	}
	if step == model.MaxProgressStep {
		patch.Status = statusRef(model.GoalStatusCompleted)
	}

	updated, err := s.transition(ctx, goalID, patch, requested)
	if err != nil {
		return nil, err
	}

	if s.entries != nil {
		err = s.entries.Create(ctx, &model.GoalEntry{
			GoalID:     goalID,
			Step:       step,
			Note:       note,
			RecordedBy: actorID,
		})
		if err != nil {
			return nil, newStorageError("record progress", err)
		}
	}

	slog.Info("goal progress recorded", "goal_id", goalID, "actor_id", actorID, "step", step, "status", updated.Status)
	return updated, nil
}

// Progress returns the recorded steps of a goal in order.
func (s *GoalService) Progress(ctx context.Context, goalID string) ([]*model.GoalEntry, error) {
	_, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, s.lookupError(goalID, err)
	}

	if s.entries == nil {
		return []*model.GoalEntry{}, nil
	}

	entries, err := s.entries.Entries(ctx, goalID)
	if err != nil {
		return nil, newStorageError("list progress", err)
	}
	return entries, nil
}

// Delete removes a goal in any status. Deletion is silent: no notification is sent.
func (s *GoalService) Delete(ctx context.Context, goalID, actorID string) error {
	err := s.repo.Delete(ctx, goalID)
	if err != nil {
		return s.lookupError(goalID, err)
	}

	slog.Info("goal deleted", "goal_id", goalID, "actor_id", actorID)
	return nil
}

// transition performs a conditional write and translates a lost race into InvalidStatusError.
func (s *GoalService) transition(ctx context.Context, goalID string, patch model.GoalPatch, requested string) (*model.Goal, error) {
	updated, err := s.repo.Update(ctx, goalID, patch)
	if err == nil {
		return updated, nil
	}

	if !errors.Is(err, repository.ErrStatusConflict) {
		return nil, s.lookupError(goalID, err)
	}

	current := ""
	goal, lookupErr := s.repo.ByID(ctx, goalID)
	if lookupErr == nil {
		current = string(goal.Status)
	}
	return nil, &InvalidStatusError{GoalID: goalID, Current: current, Requested: requested}
}

// notify records a notification. Failures are logged and never undo the goal change.
func (s *GoalService) notify(ctx context.Context, recipientID string, typ model.NotificationType, message, goalID string) {
	if s.notifier == nil {
		return
	}

	_, err := s.notifier.Notify(ctx, recipientID, typ, message, goalID)
	if err != nil {
		slog.Error("failed to record notification", "error", err, "type", typ, "recipient_id", recipientID, "goal_id", goalID)
	}
}

func (s *GoalService) lookupError(goalID string, err error) error {
	if errors.Is(err, repository.ErrGoalNotFound) {
		return &NotFoundError{Entity: "goal", ID: goalID}
	}
	return newStorageError("goal "+goalID, err)
}

func submissionMessage(goal *model.Goal) string {
	return fmt.Sprintf(`New goal "%s" submitted for your approval`, goal.Title)
}

func statusUpdateMessage(goal *model.Goal) string {
	return fmt.Sprintf(`Your goal "%s" has been %s`, goal.Title, goal.Status)
}

func statusRef(s model.GoalStatus) *model.GoalStatus {
	return &s
}
