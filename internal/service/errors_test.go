package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		err := newValidationError("title", errors.New("title is required"))
		assert.ErrorIs(t, err, ErrValidation)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "invalid title: title is required", err.Error())

		var ve *ValidationError
		assert.True(t, errors.As(fmt.Errorf("submit: %w", err), &ve))
		assert.Equal(t, "title", ve.Field)
	})

	t.Run("not_found", func(t *testing.T) {
		err := &NotFoundError{Entity: "goal", ID: "g1"}
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, `goal "g1" not found`, err.Error())
	})

	t.Run("invalid_status", func(t *testing.T) {
		err := &InvalidStatusError{GoalID: "g1", Current: "approved", Requested: "rejected"}
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Contains(t, err.Error(), "cannot move from approved to rejected")

		bad := &InvalidStatusError{GoalID: "g1", Requested: "completed"}
		assert.Contains(t, bad.Error(), "not a valid decision")
	})

	t.Run("storage_unwraps", func(t *testing.T) {
		cause := errors.New("disk full")
		err := newStorageError("create goal", cause)
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "create goal: disk full", err.Error())
	})
}
