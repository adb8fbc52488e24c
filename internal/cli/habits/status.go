package habits

import (
	"time"

	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	printDay(ctx, ctx.Habits.Now())
	return nil
}

type DayCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	printDay(ctx, date)
	return nil
}

func printDay(ctx *cli.Context, date time.Time) {
	habits := ctx.Habits.GetHabitsForDate(date)
	if len(habits) == 0 {
		ctx.Printf("No habits scheduled for %s.\n", utils.FormatDate(date))
		return
	}

	ctx.Printf("Habits for %s (%s):\n\n", utils.FormatDate(date), date.Weekday())
	done := 0
	for _, h := range habits {
		status := "[ ]"
		if h.IsCompleted {
			status = "[x]"
			done++
		}
		ctx.Printf("%s %s  %s\n", status, h.Time, h.Name)
	}
	ctx.Printf("\nCompleted: %d/%d\n", done, len(habits))
}

type DoneCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	return setCompletion(ctx, c.Habit, c.Date, true)
}

type UndoneCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *UndoneCmd) Run(ctx *cli.Context) error {
	return setCompletion(ctx, c.Habit, c.Date, false)
}

func setCompletion(ctx *cli.Context, ref, dateStr string, completed bool) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	habit, err := ctx.Habits.Resolve(ref)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(dateStr)
	if err != nil {
		return err
	}

	record, err := ctx.Habits.ToggleCompletion(ctx.Background(), habit.ID, date, completed)
	if err != nil {
		return err
	}

	if completed {
		ctx.Printf("Marked %q done for %s\n", habit.Name, record.Date)
	} else {
		ctx.Printf("Marked %q not done for %s\n", habit.Name, record.Date)
	}
	if !utils.IsDue(habit, date) {
		ctx.Printf("Note: %q is not scheduled on %s\n", habit.Name, record.Date)
	}
	return nil
}
