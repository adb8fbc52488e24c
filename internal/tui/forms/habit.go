package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

// HabitFormModel backs the habit form fields.
type HabitFormModel struct {
	Name   string
	Time   string
	Repeat models.RepeatType
	Days   string
	Dates  string
	Every  string
}

// NewHabitFormModel returns form values for a new habit, or prefilled from h
// when editing.
func NewHabitFormModel(h *models.Habit) *HabitFormModel {
	if h == nil {
		return &HabitFormModel{
			Time:   "09:00",
			Repeat: models.RepeatDaily,
			Every:  "1",
		}
	}

	fm := &HabitFormModel{
		Name:   h.Name,
		Time:   h.Time,
		Repeat: h.RepeatType(),
		Every:  strconv.Itoa(h.RepeatValue),
	}
	switch rec := h.Recurrence.(type) {
	case models.Weekly:
		fm.Days = utils.JoinInts(rec.Days.Ints())
	case models.Monthly:
		fm.Dates = utils.JoinInts(rec.Days.Ints())
	}
	return fm
}

// Input converts the form values into a habit input. Field level checks are
// left to the validator.
func (fm *HabitFormModel) Input() (models.HabitInput, error) {
	rec, err := utils.BuildRecurrence(string(fm.Repeat), fm.Days, fm.Dates)
	if err != nil {
		return models.HabitInput{}, err
	}

	every := 1
	if s := strings.TrimSpace(fm.Every); s != "" {
		every, err = strconv.Atoi(s)
		if err != nil {
			return models.HabitInput{}, fmt.Errorf("invalid repeat value %q", fm.Every)
		}
	}

	return models.HabitInput{
		Name:        fm.Name,
		Time:        strings.TrimSpace(fm.Time),
		Recurrence:  rec,
		RepeatValue: every,
	}, nil
}

// NewHabitForm creates a new form for adding or editing habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Time (HH:MM)").
				Value(&fm.Time).
				Validate(func(s string) error {
					if !utils.ValidateTimeFormat(strings.TrimSpace(s)) {
						return fmt.Errorf("invalid time format, use HH:MM")
					}
					return nil
				}),
			huh.NewSelect[models.RepeatType]().
				Title("Repeat").
				Options(
					huh.NewOption("Daily", models.RepeatDaily),
					huh.NewOption("Weekly", models.RepeatWeekly),
					huh.NewOption("Monthly", models.RepeatMonthly),
				).
				Value(&fm.Repeat),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Weekdays").
				Description("Comma-separated, e.g. mon,wed,fri").
				Value(&fm.Days).
				Validate(func(s string) error {
					days, err := utils.ParseWeekdays(s)
					if err != nil {
						return err
					}
					if days.Len() == 0 {
						return fmt.Errorf("select at least one weekday")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Repeat != models.RepeatWeekly }),
		huh.NewGroup(
			huh.NewInput().
				Title("Days of month").
				Description("Comma-separated, e.g. 1,15").
				Value(&fm.Dates).
				Validate(func(s string) error {
					days, err := utils.ParseMonthDays(s)
					if err != nil {
						return err
					}
					if days.Len() == 0 {
						return fmt.Errorf("select at least one day of month")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Repeat != models.RepeatMonthly }),
	).WithTheme(huh.ThemeDracula())
}
