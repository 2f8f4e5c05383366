package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/perfreview/goalflow/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	// ErrStatusConflict is returned when a conditional update finds the goal in another status
	// or at another progress step.
	ErrStatusConflict = errors.New("goal changed concurrently")
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, filter model.GoalFilter) ([]*model.Goal, error)
	Update(ctx context.Context, goalID string, patch model.GoalPatch) (*model.Goal, error)
	Delete(ctx context.Context, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	now := time.Now()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	query := `INSERT INTO goals (id, owner_id, title, description, deadline, priority, status, feedback, current_step, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.OwnerID,
		goal.Title,
		goal.Description,
		goal.Deadline,
		goal.Priority,
		goal.Status,
		goal.Feedback,
		goal.CurrentStep,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.GetContext(ctx, goal, query, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, filter model.GoalFilter) ([]*model.Goal, error) {
	var (
		where []string
		args  []any
	)

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT * FROM goals`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	// Insertion order
	query += ` ORDER BY created_at ASC, id ASC`

	goals := []*model.Goal{}
	err := r.db.SelectContext(ctx, &goals, query, args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// Update applies the patch in a single statement so a status precondition is checked
// and written atomically.
func (r *goalRepository) Update(ctx context.Context, goalID string, patch model.GoalPatch) (*model.Goal, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Deadline != nil {
		set("deadline", *patch.Deadline)
	}
	if patch.Priority != nil {
		set("priority", *patch.Priority)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Feedback != nil {
		set("feedback", *patch.Feedback)
	}
	if patch.CurrentStep != nil {
		set("current_step", *patch.CurrentStep)
	}
	set("updated_at", time.Now())

	args = append(args, goalID)
	query := fmt.Sprintf(`UPDATE goals SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	if patch.ExpectStatus != nil {
		args = append(args, *patch.ExpectStatus)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if patch.ExpectStep != nil {
		args = append(args, *patch.ExpectStep)
		query += fmt.Sprintf(` AND current_step = $%d`, len(args))
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		return nil, r.missingOrConflict(ctx, goalID, patch)
	}

	return r.ByID(ctx, goalID)
}

// missingOrConflict explains why an update matched no row.
func (r *goalRepository) missingOrConflict(ctx context.Context, goalID string, patch model.GoalPatch) error {
	if !patch.Conditional() {
		return ErrGoalNotFound
	}

	_, err := r.ByID(ctx, goalID)
	if err != nil {
		return err
	}
	return ErrStatusConflict
}

func (r *goalRepository) Delete(ctx context.Context, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, goalID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
