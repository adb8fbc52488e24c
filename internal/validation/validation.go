package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidTime        ConflictType = "invalid_time"
	ConflictEmptySelection     ConflictType = "empty_selection"
	ConflictUnknownRepeatType  ConflictType = "unknown_repeat_type"
)

// Conflict represents a problem found in already stored habits
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Habit names involved
	HabitIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator validates habit input and stored habits
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateInput checks user input for a new or edited habit. The first failed
// precondition is returned as a *errors.ValidationError.
func (v *Validator) ValidateInput(in models.HabitInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &apperrors.ValidationError{Field: "name", Reason: "please enter a name for the habit"}
	}
	if !utils.ValidateTimeFormat(in.Time) {
		return &apperrors.ValidationError{Field: "time", Reason: fmt.Sprintf("%q is not a zero-padded HH:MM time", in.Time)}
	}
	if in.RepeatValue < 1 {
		return &apperrors.ValidationError{Field: "repeatValue", Reason: "must be at least 1"}
	}

	switch rec := in.Recurrence.(type) {
	case models.Daily:
	case models.Weekly:
		if rec.Days.Len() == 0 {
			return &apperrors.ValidationError{Field: "repeatDays", Reason: "select at least one day of the week"}
		}
	case models.Monthly:
		if rec.Days.Len() == 0 {
			return &apperrors.ValidationError{Field: "repeatDates", Reason: "select at least one day of the month"}
		}
	case nil:
		return &apperrors.ValidationError{Field: "repeatType", Reason: "a repeat type is required"}
	default:
		return &apperrors.ValidationError{Field: "repeatType", Reason: fmt.Sprintf("unsupported repeat type %q", rec.Type())}
	}

	return nil
}

// ValidateHabits checks stored habits for data that would misbehave when
// projected, such as unpadded times or weekly habits without days.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	var result ValidationResult

	byName := make(map[string][]models.Habit)
	for _, h := range habits {
		key := strings.ToLower(strings.TrimSpace(h.Name))
		byName[key] = append(byName[key], h)

		if !utils.ValidateTimeFormat(h.Time) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTime,
				Description: fmt.Sprintf("Habit %q has time %q; it will sort incorrectly", h.Name, h.Time),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
		}

		switch rec := h.Recurrence.(type) {
		case models.Weekly:
			if rec.Days.Len() == 0 {
				result.Conflicts = append(result.Conflicts, emptySelection(h))
			}
		case models.Monthly:
			if rec.Days.Len() == 0 {
				result.Conflicts = append(result.Conflicts, emptySelection(h))
			}
		case models.Daily:
		default:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownRepeatType,
				Description: fmt.Sprintf("Habit %q has unknown repeat type %q and is never scheduled", h.Name, h.RepeatType()),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		group := byName[name]
		if len(group) < 2 {
			continue
		}
		c := Conflict{
			Type:        ConflictDuplicateHabitName,
			Description: fmt.Sprintf("%d habits share the name %q", len(group), group[0].Name),
		}
		for _, h := range group {
			c.Items = append(c.Items, h.Name)
			c.HabitIDs = append(c.HabitIDs, h.ID)
		}
		result.Conflicts = append(result.Conflicts, c)
	}

	return result
}

func emptySelection(h models.Habit) Conflict {
	return Conflict{
		Type:        ConflictEmptySelection,
		Description: fmt.Sprintf("Habit %q repeats %s but has no days selected and is never scheduled", h.Name, h.RepeatType()),
		Items:       []string{h.Name},
		HabitIDs:    []string{h.ID},
	}
}
