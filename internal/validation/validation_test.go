package validation

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/models"
)

func TestValidateInput(t *testing.T) {
	validator := New()

	tests := []struct {
		name      string
		input     models.HabitInput
		wantField string
	}{
		{
			name:  "valid daily",
			input: models.HabitInput{Name: "Water", Time: "08:00", Recurrence: models.Daily{}, RepeatValue: 1},
		},
		{
			name:  "valid weekly",
			input: models.HabitInput{Name: "Gym", Time: "18:00", Recurrence: models.Weekly{Days: models.Weekdays(time.Monday)}, RepeatValue: 1},
		},
		{
			name:  "valid monthly",
			input: models.HabitInput{Name: "Rent", Time: "09:00", Recurrence: models.Monthly{Days: models.MonthDays(1)}, RepeatValue: 1},
		},
		{
			name:      "empty name",
			input:     models.HabitInput{Name: "   ", Time: "08:00", Recurrence: models.Daily{}, RepeatValue: 1},
			wantField: "name",
		},
		{
			name:      "unpadded time",
			input:     models.HabitInput{Name: "Read", Time: "7:30", Recurrence: models.Daily{}, RepeatValue: 1},
			wantField: "time",
		},
		{
			name:      "zero repeat value",
			input:     models.HabitInput{Name: "Read", Time: "07:30", Recurrence: models.Daily{}},
			wantField: "repeatValue",
		},
		{
			name:      "weekly without days",
			input:     models.HabitInput{Name: "Gym", Time: "18:00", Recurrence: models.Weekly{}, RepeatValue: 1},
			wantField: "repeatDays",
		},
		{
			name:      "monthly without dates",
			input:     models.HabitInput{Name: "Rent", Time: "09:00", Recurrence: models.Monthly{}, RepeatValue: 1},
			wantField: "repeatDates",
		},
		{
			name:      "missing recurrence",
			input:     models.HabitInput{Name: "Rent", Time: "09:00", RepeatValue: 1},
			wantField: "repeatType",
		},
		{
			name:      "unknown recurrence",
			input:     models.HabitInput{Name: "Rent", Time: "09:00", Recurrence: models.Unrecognized{Kind: "yearly"}, RepeatValue: 1},
			wantField: "repeatType",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateInput(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var ve *apperrors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, ve.Field)
			}
		})
	}
}

func TestValidateHabits(t *testing.T) {
	validator := New()

	habits := []models.Habit{
		{ID: "1", Name: "Read", Time: "07:30", Recurrence: models.Daily{}},
		{ID: "2", Name: "read", Time: "21:00", Recurrence: models.Daily{}},
		{ID: "3", Name: "Gym", Time: "6:00", Recurrence: models.Weekly{Days: models.Weekdays(time.Monday)}},
		{ID: "4", Name: "Stretch", Time: "06:00", Recurrence: models.Weekly{}},
		{ID: "5", Name: "Taxes", Time: "09:00", Recurrence: models.Unrecognized{Kind: "yearly"}},
	}

	result := validator.ValidateHabits(habits)
	if !result.HasConflicts() {
		t.Fatal("expected conflicts")
	}

	counts := make(map[ConflictType]int)
	for _, c := range result.Conflicts {
		counts[c.Type]++
	}

	if counts[ConflictDuplicateHabitName] != 1 {
		t.Errorf("expected 1 duplicate name conflict, got %d", counts[ConflictDuplicateHabitName])
	}
	if counts[ConflictInvalidTime] != 1 {
		t.Errorf("expected 1 invalid time conflict, got %d", counts[ConflictInvalidTime])
	}
	if counts[ConflictEmptySelection] != 1 {
		t.Errorf("expected 1 empty selection conflict, got %d", counts[ConflictEmptySelection])
	}
	if counts[ConflictUnknownRepeatType] != 1 {
		t.Errorf("expected 1 unknown repeat type conflict, got %d", counts[ConflictUnknownRepeatType])
	}
}

func TestValidateHabits_Clean(t *testing.T) {
	validator := New()
	result := validator.ValidateHabits([]models.Habit{
		{ID: "1", Name: "Read", Time: "07:30", Recurrence: models.Daily{}},
	})
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got %v", result.Conflicts)
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report %q", result.FormatReport())
	}
}
