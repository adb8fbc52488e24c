package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitcontrol/internal/constants"
)

// NewID returns a random 128-bit identifier.
func NewID() string {
	return uuid.NewString()
}

// FormatDate formats t as a calendar date (YYYY-MM-DD) in t's location.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDate parses a date string (YYYY-MM-DD) as midnight in the local timezone.
func ParseDate(dateStr string) (time.Time, error) {
	return ParseDateInLocation(dateStr, time.Local)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", dateStr, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// StartOfDay truncates t to local midnight, keeping its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateOrToday parses dateStr, or returns today's date when it is empty.
func DateOrToday(dateStr string, now time.Time) (time.Time, error) {
	if dateStr == "" {
		return StartOfDay(now), nil
	}
	return ParseDateInLocation(dateStr, now.Location())
}

// ValidateTimeFormat checks that s is a zero-padded 24-hour HH:MM time.
// time.Parse alone accepts "7:30", which would sort after "10:00".
func ValidateTimeFormat(s string) bool {
	if len(s) != len(constants.TimeFormat) {
		return false
	}
	_, err := time.Parse(constants.TimeFormat, s)
	return err == nil
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
