// Package stats aggregates completion history into rates.
package stats

import (
	"github.com/julianstephens/habitcontrol/internal/constants"
	"github.com/julianstephens/habitcontrol/internal/models"
)

// Level is a display band for a completion rate.
type Level string

const (
	LevelGood Level = "good"
	LevelFair Level = "fair"
	LevelPoor Level = "poor"
)

// Summary holds the counts behind a completion rate.
type Summary struct {
	HabitID   string  `json:"habitId"`
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Rate      float64 `json:"rate"`
	Level     Level   `json:"level"`
}

// CompletionRate returns the percentage of logged records of habitID that are
// marked done. A habit without records has a rate of 0.
func CompletionRate(habitID string, completions []models.HabitCompletion) float64 {
	return Summarize(habitID, completions).Rate
}

// Summarize counts the records of habitID and computes its rate.
func Summarize(habitID string, completions []models.HabitCompletion) Summary {
	s := Summary{HabitID: habitID}
	for _, c := range completions {
		if c.HabitID != habitID {
			continue
		}
		s.Total++
		if c.Completed {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Rate = 100 * float64(s.Completed) / float64(s.Total)
	}
	s.Level = LevelFor(s.Rate)
	return s
}

// LevelFor maps a rate onto its display band.
func LevelFor(rate float64) Level {
	switch {
	case rate >= constants.RateGoodThreshold:
		return LevelGood
	case rate >= constants.RateFairThreshold:
		return LevelFair
	default:
		return LevelPoor
	}
}
