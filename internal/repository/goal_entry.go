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
	ErrDuplicateStep = errors.New("progress step already recorded")
)

type GoalEntryRepository interface {
	Create(ctx context.Context, entry *model.GoalEntry) error
	Entries(ctx context.Context, goalID string) ([]*model.GoalEntry, error)
}

type goalEntryRepository struct {
	db *sqlx.DB
}

func NewGoalEntryRepository(db *sqlx.DB) GoalEntryRepository {
	return &goalEntryRepository{db: db}
}

func (r *goalEntryRepository) Create(ctx context.Context, entry *model.GoalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()

	// (goal_id, step) is unique, so a replayed step inserts nothing
	query := `INSERT INTO goal_entries (id, goal_id, step, note, recorded_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (goal_id, step) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.GoalID,
		entry.Step,
		entry.Note,
		entry.RecordedBy,
		entry.CreatedAt,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrDuplicateStep
	}

	return nil
}

// Entries returns the goal's recorded steps in ascending order.
func (r *goalEntryRepository) Entries(ctx context.Context, goalID string) ([]*model.GoalEntry, error) {
	entries := []*model.GoalEntry{}
	query := `SELECT * FROM goal_entries WHERE goal_id = $1 ORDER BY step ASC`

	err := r.db.SelectContext(ctx, &entries, query, goalID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
