package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/models"
)

const logNameWidth = 20

type LogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *LogCmd) Validate() error {
	if c.Days < 1 || c.Days > 366 {
		return fmt.Errorf("days must be between 1 and 366")
	}
	return nil
}

func (c *LogCmd) Run(ctx *cli.Context) error {
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

	start := ctx.Habits.Now().AddDate(0, 0, -(c.Days - 1))
	history := ctx.Habits.GetHistory(start, c.Days)

	// Per day: habit ID -> completed, for habits due that day
	due := make([]map[string]bool, len(history))
	for i, day := range history {
		due[i] = make(map[string]bool, len(day.Habits))
		for _, h := range day.Habits {
			due[i][h.ID] = h.IsCompleted
		}
	}

	ctx.Printf("Habit log (last %d days):\n\n", c.Days)

	ctx.Printf("%-*s", logNameWidth, "Habit")
	for _, day := range history {
		ctx.Printf(" %5s", day.Date.Format("01/02"))
	}
	ctx.Println()
	ctx.Println(strings.Repeat("-", logNameWidth+6*len(history)))

	for _, habit := range selected {
		ctx.Printf("%-*s", logNameWidth, truncate(habit.Name, logNameWidth))
		for i := range history {
			completed, ok := due[i][habit.ID]
			switch {
			case !ok:
				ctx.Print("      ")
			case completed:
				ctx.Print("   x  ")
			default:
				ctx.Print("   .  ")
			}
		}
		ctx.Println()
	}

	ctx.Println("\nx = done, . = due, blank = not scheduled")
	return nil
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
