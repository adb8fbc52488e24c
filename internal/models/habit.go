package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type RepeatType string

const (
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
)

// Recurrence is the schedule rule of a habit. It is one of Daily, Weekly,
// Monthly or Unrecognized.
type Recurrence interface {
	Type() RepeatType
	isRecurrence()
}

// Daily habits are due every date.
type Daily struct{}

// Weekly habits are due on the weekdays in Days.
type Weekly struct {
	Days WeekdaySet
}

// Monthly habits are due on the days of month in Days.
type Monthly struct {
	Days MonthDaySet
}

// Unrecognized keeps a repeat type this version does not understand so that
// it survives a load/save round trip. It is never due.
type Unrecognized struct {
	Kind RepeatType
}

func (Daily) Type() RepeatType          { return RepeatDaily }
func (Weekly) Type() RepeatType         { return RepeatWeekly }
func (Monthly) Type() RepeatType        { return RepeatMonthly }
func (u Unrecognized) Type() RepeatType { return u.Kind }

func (Daily) isRecurrence()        {}
func (Weekly) isRecurrence()       {}
func (Monthly) isRecurrence()      {}
func (Unrecognized) isRecurrence() {}

// WeekdaySet is a bitmask of weekdays, bit 0 = Sunday.
type WeekdaySet uint8

func Weekdays(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			s |= 1 << uint(d)
		}
	}
	return s
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) Len() int {
	n := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Ints returns the weekday indices in ascending order.
func (s WeekdaySet) Ints() []int {
	out := []int{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, int(d))
		}
	}
	return out
}

// MonthDaySet is a bitmask of days of month, bit n = day n (1..31).
type MonthDaySet uint32

func MonthDays(days ...int) MonthDaySet {
	var s MonthDaySet
	for _, d := range days {
		if d >= 1 && d <= 31 {
			s |= 1 << uint(d)
		}
	}
	return s
}

func (s MonthDaySet) Has(day int) bool {
	if day < 1 || day > 31 {
		return false
	}
	return s&(1<<uint(day)) != 0
}

func (s MonthDaySet) Len() int {
	return len(s.Ints())
}

func (s MonthDaySet) Ints() []int {
	out := []int{}
	for d := 1; d <= 31; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Habit represents a recurring task definition
type Habit struct {
	ID          string
	Name        string
	Time        string // HH:MM format
	Recurrence  Recurrence
	RepeatValue int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HabitInput carries the user-editable fields of a habit.
type HabitInput struct {
	Name        string
	Time        string
	Recurrence  Recurrence
	RepeatValue int
}

// RepeatType reports the type of the habit's recurrence, or "" when unset.
func (h Habit) RepeatType() RepeatType {
	if h.Recurrence == nil {
		return ""
	}
	return h.Recurrence.Type()
}

// Input returns the editable fields of the habit.
func (h Habit) Input() HabitInput {
	return HabitInput{
		Name:        h.Name,
		Time:        h.Time,
		Recurrence:  h.Recurrence,
		RepeatValue: h.RepeatValue,
	}
}

// habitRecord is the flat wire form shared with storage and UI consumers.
type habitRecord struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Time        string     `json:"time"`
	RepeatType  RepeatType `json:"repeatType"`
	RepeatValue int        `json:"repeatValue"`
	RepeatDays  []int      `json:"repeatDays,omitempty"`
	RepeatDates []int      `json:"repeatDates,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (h Habit) record() habitRecord {
	r := habitRecord{
		ID:          h.ID,
		Name:        h.Name,
		Time:        h.Time,
		RepeatType:  h.RepeatType(),
		RepeatValue: h.RepeatValue,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
	switch rec := h.Recurrence.(type) {
	case Weekly:
		r.RepeatDays = rec.Days.Ints()
	case Monthly:
		r.RepeatDates = rec.Days.Ints()
	}
	return r
}

func (r habitRecord) habit() (Habit, error) {
	rec, err := NewRecurrence(r.RepeatType, r.RepeatDays, r.RepeatDates)
	if err != nil {
		return Habit{}, fmt.Errorf("habit %s: %w", r.ID, err)
	}
	return Habit{
		ID:          r.ID,
		Name:        r.Name,
		Time:        r.Time,
		Recurrence:  rec,
		RepeatValue: r.RepeatValue,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func (h Habit) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.record())
}

func (h *Habit) UnmarshalJSON(data []byte) error {
	var r habitRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	decoded, err := r.habit()
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}

// NewRecurrence builds a recurrence from its flat representation. Only the
// selection that matches repeatType is read; the other one is ignored.
func NewRecurrence(repeatType RepeatType, days, dates []int) (Recurrence, error) {
	switch repeatType {
	case RepeatDaily:
		return Daily{}, nil
	case RepeatWeekly:
		var set WeekdaySet
		for _, d := range days {
			if d < 0 || d > 6 {
				return nil, fmt.Errorf("invalid weekday %d (expected 0-6)", d)
			}
			set |= Weekdays(time.Weekday(d))
		}
		return Weekly{Days: set}, nil
	case RepeatMonthly:
		for _, d := range dates {
			if d < 1 || d > 31 {
				return nil, fmt.Errorf("invalid day of month %d (expected 1-31)", d)
			}
		}
		return Monthly{Days: MonthDays(dates...)}, nil
	default:
		return Unrecognized{Kind: repeatType}, nil
	}
}

// HabitCompletion records whether a habit was done on a calendar date
type HabitCompletion struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habitId"`
	Date        string    `json:"date"` // YYYY-MM-DD format
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completedAt"`
}

// HabitWithStatus is a habit merged with its completion status for one date.
// It is derived on every query and never stored.
type HabitWithStatus struct {
	Habit
	IsCompleted         bool
	CompletionID        string
	IsScheduledForToday bool
}

func (h HabitWithStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		habitRecord
		IsCompleted         bool   `json:"isCompleted"`
		CompletionID        string `json:"completionId,omitempty"`
		IsScheduledForToday bool   `json:"isScheduledForToday"`
	}{
		habitRecord:         h.Habit.record(),
		IsCompleted:         h.IsCompleted,
		CompletionID:        h.CompletionID,
		IsScheduledForToday: h.IsScheduledForToday,
	})
}
