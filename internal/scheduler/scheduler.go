package scheduler

import (
	"sort"
	"time"

	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

// CompletionFinder resolves the completion of a habit on a date.
type CompletionFinder interface {
	Find(habitID, date string) (models.HabitCompletion, bool)
}

// Day is the projection of one calendar date.
type Day struct {
	Date   time.Time
	Habits []models.HabitWithStatus
}

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// Project returns the habits due on date merged with their completion state,
// ordered by time of day. Habits with equal times keep their input order.
func (s *Scheduler) Project(habits []models.Habit, completions CompletionFinder, date time.Time) []models.HabitWithStatus {
	dateStr := utils.FormatDate(date)

	result := []models.HabitWithStatus{}
	for _, habit := range habits {
		if !utils.IsDue(habit, date) {
			continue
		}

		status := models.HabitWithStatus{
			Habit:               habit,
			IsScheduledForToday: true,
		}
		if c, ok := completions.Find(habit.ID, dateStr); ok {
			status.IsCompleted = c.Completed
			status.CompletionID = c.ID
		}
		result = append(result, status)
	}

	// HH:MM is fixed width, so string order is time order
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Time < result[j].Time
	})

	return result
}

// History projects days consecutive dates starting at start.
func (s *Scheduler) History(habits []models.Habit, completions CompletionFinder, start time.Time, days int) []Day {
	if days <= 0 {
		return nil
	}

	start = utils.StartOfDay(start)
	out := make([]Day, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		out = append(out, Day{
			Date:   date,
			Habits: s.Project(habits, completions, date),
		})
	}
	return out
}
