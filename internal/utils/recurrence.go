package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitcontrol/internal/models"
)

// IsDue determines if a habit is scheduled on the given date based on its
// recurrence rule. Only the weekday (Sunday=0) and day of month of date are
// consulted, in date's own location. Unknown or missing rules are never due.
func IsDue(habit models.Habit, date time.Time) bool {
	switch rec := habit.Recurrence.(type) {
	case models.Daily:
		return true
	case models.Weekly:
		return rec.Days.Has(date.Weekday())
	case models.Monthly:
		// Day 31 never matches a 30-day month; there is no rollover
		return rec.Days.Has(date.Day())
	default:
		return false
	}
}

var weekdayNames = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers
// (0=Sunday, 6=Saturday).
func ParseWeekdays(s string) (models.WeekdaySet, error) {
	var set models.WeekdaySet
	if strings.TrimSpace(s) == "" {
		return set, nil
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := weekdayNames[part]; ok {
			set |= models.Weekdays(wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return 0, fmt.Errorf("invalid weekday: %s", part)
		}
		set |= models.Weekdays(time.Weekday(num))
	}
	return set, nil
}

// ParseMonthDays parses a comma-separated list of days of month (1-31).
func ParseMonthDays(s string) (models.MonthDaySet, error) {
	days, err := SplitInts(s)
	if err != nil {
		return 0, err
	}
	for _, d := range days {
		if d < 1 || d > 31 {
			return 0, fmt.Errorf("invalid day of month: %d", d)
		}
	}
	return models.MonthDays(days...), nil
}

// BuildRecurrence assembles a recurrence from its command line form.
func BuildRecurrence(repeatType, weekdays, monthDays string) (models.Recurrence, error) {
	switch models.RepeatType(strings.ToLower(strings.TrimSpace(repeatType))) {
	case models.RepeatDaily:
		return models.Daily{}, nil
	case models.RepeatWeekly:
		days, err := ParseWeekdays(weekdays)
		if err != nil {
			return nil, err
		}
		return models.Weekly{Days: days}, nil
	case models.RepeatMonthly:
		days, err := ParseMonthDays(monthDays)
		if err != nil {
			return nil, err
		}
		return models.Monthly{Days: days}, nil
	default:
		return nil, fmt.Errorf("invalid repeat type: %s (expected daily, weekly or monthly)", repeatType)
	}
}

// FormatRecurrence formats a recurrence rule into a human-readable string
func FormatRecurrence(rec models.Recurrence) string {
	switch r := rec.(type) {
	case models.Daily:
		return "daily"
	case models.Weekly:
		if r.Days.Len() == 0 {
			return "weekly (no days)"
		}
		var days []string
		for _, d := range r.Days.Ints() {
			days = append(days, time.Weekday(d).String()[:3])
		}
		return fmt.Sprintf("weekly on %s", strings.Join(days, ","))
	case models.Monthly:
		if r.Days.Len() == 0 {
			return "monthly (no days)"
		}
		return fmt.Sprintf("monthly on %s", JoinInts(r.Days.Ints()))
	case models.Unrecognized:
		return fmt.Sprintf("unknown (%s)", r.Kind)
	default:
		return "unknown"
	}
}
