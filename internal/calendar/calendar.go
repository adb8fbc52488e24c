// Package calendar exports habits as an iCalendar feed of recurring events.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/julianstephens/habitcontrol/internal/constants"
	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

// floating local time, matching the wall-clock semantics of habit times
const icalLocalFormat = "20060102T150405"

// searchWindow bounds the search for a first occurrence; every schedule with
// at least one selected day fires within two months.
const searchWindow = 62

var weekdayCodes = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

type Options struct {
	// From is the earliest date an event may start on
	From time.Time
	// Duration of each event; zero yields 15 minutes
	Duration time.Duration
	// Stamp is written as DTSTAMP
	Stamp time.Time
}

// Entry is a parsed VEVENT.
type Entry struct {
	UID     string
	Summary string
	Start   string
	RRule   string
}

// RRule returns the recurrence rule for h, or false when h is never due.
func RRule(h models.Habit) (string, bool) {
	switch rec := h.Recurrence.(type) {
	case models.Daily:
		return "FREQ=DAILY", true
	case models.Weekly:
		if rec.Days.Len() == 0 {
			return "", false
		}
		codes := make([]string, 0, rec.Days.Len())
		for _, d := range rec.Days.Ints() {
			codes = append(codes, weekdayCodes[d])
		}
		return "FREQ=WEEKLY;BYDAY=" + strings.Join(codes, ","), true
	case models.Monthly:
		if rec.Days.Len() == 0 {
			return "", false
		}
		return "FREQ=MONTHLY;BYMONTHDAY=" + utils.JoinInts(rec.Days.Ints()), true
	default:
		return "", false
	}
}

// firstOccurrence returns the first due date on or after from, at the
// habit's time of day.
func firstOccurrence(h models.Habit, from time.Time) (time.Time, bool) {
	minutes, err := utils.ParseTimeToMinutes(h.Time)
	if err != nil {
		return time.Time{}, false
	}
	day := utils.StartOfDay(from)
	for i := 0; i < searchWindow; i++ {
		if utils.IsDue(h, day) {
			return day.Add(time.Duration(minutes) * time.Minute), true
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

// Export renders habits as a VCALENDAR. Habits that are never due are left
// out.
func Export(habits []models.Habit, opts Options) string {
	if opts.Duration <= 0 {
		opts.Duration = 15 * time.Minute
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = time.Now()
	}
	if opts.From.IsZero() {
		opts.From = opts.Stamp
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(fmt.Sprintf("-//%s//%s//EN", constants.AppName, constants.Version))
	cal.SetName(constants.AppName)

	for _, h := range habits {
		rule, ok := RRule(h)
		if !ok {
			continue
		}
		start, ok := firstOccurrence(h, opts.From)
		if !ok {
			continue
		}

		event := cal.AddEvent(h.ID + "@" + constants.AppName)
		event.SetSummary(h.Name)
		event.SetDtStampTime(opts.Stamp)
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icalLocalFormat))
		event.SetProperty(ics.ComponentPropertyDtEnd, start.Add(opts.Duration).Format(icalLocalFormat))
		event.AddRrule(rule)
		if !h.UpdatedAt.IsZero() {
			event.SetModifiedAt(h.UpdatedAt)
		}
	}

	return cal.Serialize()
}

// Parse reads the events of a calendar produced by Export.
func Parse(r io.Reader) ([]Entry, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing ical: %w", err)
	}

	var entries []Entry
	for _, e := range cal.Events() {
		entries = append(entries, Entry{
			UID:     propertyValue(e, ics.ComponentPropertyUniqueId),
			Summary: propertyValue(e, ics.ComponentPropertySummary),
			Start:   propertyValue(e, ics.ComponentPropertyDtStart),
			RRule:   propertyValue(e, ics.ComponentPropertyRrule),
		})
	}
	return entries, nil
}

func propertyValue(e *ics.VEvent, prop ics.ComponentProperty) string {
	if p := e.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

// HabitInput converts an entry back into habit fields. Only the rules that
// Export writes are understood.
func (e Entry) HabitInput() (models.HabitInput, error) {
	start, err := time.Parse(icalLocalFormat, strings.TrimSuffix(e.Start, "Z"))
	if err != nil {
		return models.HabitInput{}, fmt.Errorf("event %s: invalid start %q", e.UID, e.Start)
	}
	rec, err := parseRRule(e.RRule)
	if err != nil {
		return models.HabitInput{}, fmt.Errorf("event %s: %w", e.UID, err)
	}
	return models.HabitInput{
		Name:        e.Summary,
		Time:        start.Format(constants.TimeFormat),
		Recurrence:  rec,
		RepeatValue: 1,
	}, nil
}

func parseRRule(rule string) (models.Recurrence, error) {
	parts := make(map[string]string)
	for _, p := range strings.Split(rule, ";") {
		if k, v, ok := strings.Cut(p, "="); ok {
			parts[strings.ToUpper(strings.TrimSpace(k))] = strings.TrimSpace(v)
		}
	}

	switch parts["FREQ"] {
	case "DAILY":
		return models.Daily{}, nil
	case "WEEKLY":
		var days models.WeekdaySet
		for _, code := range strings.Split(parts["BYDAY"], ",") {
			found := false
			for i, c := range weekdayCodes {
				if strings.EqualFold(code, c) {
					days |= models.Weekdays(time.Weekday(i))
					found = true
				}
			}
			if !found {
				return nil, fmt.Errorf("unsupported BYDAY value %q", code)
			}
		}
		return models.Weekly{Days: days}, nil
	case "MONTHLY":
		days, err := utils.ParseMonthDays(parts["BYMONTHDAY"])
		if err != nil {
			return nil, err
		}
		return models.Monthly{Days: days}, nil
	default:
		return nil, fmt.Errorf("unsupported recurrence rule %q", rule)
	}
}
