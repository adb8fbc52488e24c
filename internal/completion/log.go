// Package completion holds the sparse log of habit completions keyed by
// habit and calendar date.
package completion

import (
	"time"

	"github.com/julianstephens/habitcontrol/internal/models"
)

type key struct {
	habitID string
	date    string
}

// Log is an in-memory collection of completions with at most one record per
// (habit, date). It is not safe for concurrent use; the owning store
// serializes access.
type Log struct {
	entries []models.HabitCompletion
	index   map[key]int
	newID   func() string
}

// NewLog builds a log from stored records. When the input holds duplicate
// keys the later record wins.
func NewLog(records []models.HabitCompletion, newID func() string) *Log {
	l := &Log{
		index: make(map[key]int, len(records)),
		newID: newID,
	}
	for _, r := range records {
		l.Put(r)
	}
	return l
}

// Find returns the completion for habitID on date, if any.
func (l *Log) Find(habitID, date string) (models.HabitCompletion, bool) {
	i, ok := l.index[key{habitID, date}]
	if !ok {
		return models.HabitCompletion{}, false
	}
	return l.entries[i], true
}

// Prepare returns the record Upsert would store without changing the log.
// An existing record keeps its id; a new one receives a fresh id.
func (l *Log) Prepare(habitID, date string, completed bool, at time.Time) models.HabitCompletion {
	if existing, ok := l.Find(habitID, date); ok {
		existing.Completed = completed
		existing.CompletedAt = at
		return existing
	}
	return models.HabitCompletion{
		ID:          l.newID(),
		HabitID:     habitID,
		Date:        date,
		Completed:   completed,
		CompletedAt: at,
	}
}

// Upsert sets the completion state for habitID on date and returns the
// stored record.
func (l *Log) Upsert(habitID, date string, completed bool, at time.Time) models.HabitCompletion {
	c := l.Prepare(habitID, date, completed, at)
	l.Put(c)
	return c
}

// Put stores c, replacing any record with the same (habit, date).
func (l *Log) Put(c models.HabitCompletion) {
	k := key{c.HabitID, c.Date}
	if i, ok := l.index[k]; ok {
		l.entries[i] = c
		return
	}
	l.index[k] = len(l.entries)
	l.entries = append(l.entries, c)
}

// RemoveByHabit drops every record of habitID and reports how many were
// removed.
func (l *Log) RemoveByHabit(habitID string) int {
	kept := l.entries[:0]
	removed := 0
	for _, c := range l.entries {
		if c.HabitID == habitID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	if removed == 0 {
		return 0
	}
	l.entries = kept
	l.reindex()
	return removed
}

func (l *Log) reindex() {
	l.index = make(map[key]int, len(l.entries))
	for i, c := range l.entries {
		l.index[key{c.HabitID, c.Date}] = i
	}
}

// All returns a copy of every record in insertion order.
func (l *Log) All() []models.HabitCompletion {
	out := make([]models.HabitCompletion, len(l.entries))
	copy(out, l.entries)
	return out
}

// ForHabit returns a copy of the records of habitID in insertion order.
func (l *Log) ForHabit(habitID string) []models.HabitCompletion {
	var out []models.HabitCompletion
	for _, c := range l.entries {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	return out
}

func (l *Log) Len() int {
	return len(l.entries)
}
