package habits

import (
	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/models"
)

type StatsCmd struct {
	Habit string `arg:"" optional:"" help:"Habit ID or name (default: all habits)."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	var selected []models.Habit
	if c.Habit != "" {
		habit, err := ctx.Habits.Resolve(c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{habit}
	} else {
		selected = ctx.Habits.Habits()
	}

	if len(selected) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, habit := range selected {
		s := ctx.Habits.GetSummary(habit.ID)
		ctx.Printf("%-*s %4.0f%%  %d/%d  %s\n", logNameWidth, truncate(habit.Name, logNameWidth), s.Rate, s.Completed, s.Total, s.Level)
	}
	return nil
}
