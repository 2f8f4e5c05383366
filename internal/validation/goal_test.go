package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/perfreview/goalflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGoalTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr string
	}{
		{name: "valid", title: "Improve docs"},
		{name: "empty", title: "", wantErr: "title is required"},
		{name: "whitespace only", title: "   \t", wantErr: "title is required"},
		{name: "at limit", title: strings.Repeat("a", MaxTitleLength)},
		{name: "too long", title: strings.Repeat("a", MaxTitleLength+1), wantErr: "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGoalTitle(tt.title)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDeadline(t *testing.T) {
	assert.Error(t, ValidateDeadline(nil))
	assert.Error(t, ValidateDeadline(&time.Time{}))

	d := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, ValidateDeadline(&d))
}

func TestValidateFeedback(t *testing.T) {
	assert.NoError(t, ValidateFeedback(""))
	assert.NoError(t, ValidateFeedback("Nice work"))
	assert.Error(t, ValidateFeedback(strings.Repeat("x", MaxFeedbackLength+1)))
}

func TestValidateProgressNote(t *testing.T) {
	assert.NoError(t, ValidateProgressNote(""))
	assert.NoError(t, ValidateProgressNote(strings.Repeat("é", MaxNoteLength)))
	assert.Error(t, ValidateProgressNote(strings.Repeat("x", MaxNoteLength+1)))
}

func TestParseDeadline(t *testing.T) {
	t.Run("date", func(t *testing.T) {
		d, err := ParseDeadline("2025-06-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("rfc3339", func(t *testing.T) {
		d, err := ParseDeadline("2025-06-01T17:30:00Z")
		require.NoError(t, err)
		assert.Equal(t, 17, d.Hour())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseDeadline(" ")
		assert.EqualError(t, err, "deadline is required")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseDeadline("next tuesday")
		assert.Error(t, err)
	})
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want model.Priority
	}{
		{"", model.PriorityLow},
		{"low", model.PriorityLow},
		{"0", model.PriorityLow},
		{"Medium", model.PriorityMedium},
		{"1", model.PriorityMedium},
		{"HIGH", model.PriorityHigh},
		{"2", model.PriorityHigh},
	}

	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParsePriority("3")
	assert.Error(t, err)
	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestValidateRole(t *testing.T) {
	assert.NoError(t, ValidateRole("manager"))
	assert.Error(t, ValidateRole("owner"))
}
