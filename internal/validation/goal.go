package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/perfreview/goalflow/internal/model"
)

const (
	MaxTitleLength    = 200
	MaxFeedbackLength = 2000
	MaxNoteLength     = 500
)

// ValidateGoalTitle rejects blank and oversized titles
func ValidateGoalTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return fmt.Errorf("title is too long (max %d characters)", MaxTitleLength)
	}

	return nil
}

func ValidateDeadline(deadline *time.Time) error {
	if deadline == nil || deadline.IsZero() {
		return errors.New("deadline is required")
	}
	return nil
}

func ValidateFeedback(feedback string) error {
	if utf8.RuneCountInString(feedback) > MaxFeedbackLength {
		return fmt.Errorf("feedback is too long (max %d characters)", MaxFeedbackLength)
	}
	return nil
}

func ValidateProgressNote(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return fmt.Errorf("note is too long (max %d characters)", MaxNoteLength)
	}
	return nil
}

// ParseDeadline accepts a calendar date (datepicker format) or a full RFC 3339 timestamp.
func ParseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("deadline is required")
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New("invalid deadline format (use YYYY-MM-DD)")
	}
	return t, nil
}

// ParsePriority maps user input onto the priority enum.
// Empty input defaults to low. The legacy integer form (0, 1, 2) is accepted too.
func ParsePriority(value string) (model.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "low", "0":
		return model.PriorityLow, nil
	case "medium", "1":
		return model.PriorityMedium, nil
	case "high", "2":
		return model.PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority %q (use low, medium or high)", value)
}

func ValidateRole(role string) error {
	if !model.Role(role).Valid() {
		return fmt.Errorf("invalid role %q (use admin, manager or employee)", role)
	}
	return nil
}
