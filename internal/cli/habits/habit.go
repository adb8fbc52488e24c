package habits

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/constants"
	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/tui/forms"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit an existing habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its completion history."`
	List   HabitListCmd   `cmd:"" help:"List all habits."`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit and its completion rate."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Time        string `short:"t" help:"Time of day (HH:MM)." default:"09:00"`
	Repeat      string `short:"r" help:"Repeat type (daily|weekly|monthly)." default:"daily"`
	Weekdays    string `short:"w" help:"Comma-separated weekdays for weekly habits."`
	Dates       string `short:"m" help:"Comma-separated days of month for monthly habits."`
	Every       int    `short:"n" help:"Repeat value." default:"1"`
	Interactive bool   `short:"i" help:"Fill in the habit with a form."`
}

func (c *HabitAddCmd) Validate() error {
	if !c.Interactive && strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("habit name is required unless --interactive is set")
	}
	return nil
}

func (c *HabitAddCmd) input() (models.HabitInput, error) {
	if c.Interactive {
		fm := forms.NewHabitFormModel(nil)
		fm.Name = c.Name
		if err := forms.NewHabitForm(fm).Run(); err != nil {
			return models.HabitInput{}, err
		}
		return fm.Input()
	}

	rec, err := utils.BuildRecurrence(c.Repeat, c.Weekdays, c.Dates)
	if err != nil {
		return models.HabitInput{}, err
	}
	return models.HabitInput{
		Name:        c.Name,
		Time:        c.Time,
		Recurrence:  rec,
		RepeatValue: c.Every,
	}, nil
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	in, err := c.input()
	if err != nil {
		return err
	}

	habit, err := ctx.Habits.CreateHabit(ctx.Background(), in)
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (ID: %s)\n", habit.Name, habit.ID)
	return nil
}

type HabitEditCmd struct {
	Habit       string `arg:"" help:"Habit ID or name."`
	Name        string `help:"New name."`
	Time        string `short:"t" help:"New time of day (HH:MM)."`
	Repeat      string `short:"r" help:"New repeat type (daily|weekly|monthly)."`
	Weekdays    string `short:"w" help:"Comma-separated weekdays for weekly habits."`
	Dates       string `short:"m" help:"Comma-separated days of month for monthly habits."`
	Every       int    `short:"n" help:"New repeat value."`
	Interactive bool   `short:"i" help:"Edit the habit with a form."`
}

func (c *HabitEditCmd) apply(habit models.Habit) (models.Habit, error) {
	if c.Interactive {
		fm := forms.NewHabitFormModel(&habit)
		if err := forms.NewHabitForm(fm).Run(); err != nil {
			return habit, err
		}
		in, err := fm.Input()
		if err != nil {
			return habit, err
		}
		habit.Name, habit.Time, habit.Recurrence, habit.RepeatValue = in.Name, in.Time, in.Recurrence, in.RepeatValue
		return habit, nil
	}

	if c.Name != "" {
		habit.Name = c.Name
	}
	if c.Time != "" {
		habit.Time = c.Time
	}
	if c.Every != 0 {
		habit.RepeatValue = c.Every
	}

	if c.Repeat != "" || c.Weekdays != "" || c.Dates != "" {
		repeat := c.Repeat
		if repeat == "" {
			repeat = string(habit.RepeatType())
		}
		weekdays, dates := c.Weekdays, c.Dates
		switch rec := habit.Recurrence.(type) {
		case models.Weekly:
			if weekdays == "" {
				weekdays = utils.JoinInts(rec.Days.Ints())
			}
		case models.Monthly:
			if dates == "" {
				dates = utils.JoinInts(rec.Days.Ints())
			}
		}
		rec, err := utils.BuildRecurrence(repeat, weekdays, dates)
		if err != nil {
			return habit, err
		}
		habit.Recurrence = rec
	}
	return habit, nil
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	habit, err := ctx.Habits.Resolve(c.Habit)
	if err != nil {
		return err
	}

	habit, err = c.apply(habit)
	if err != nil {
		return err
	}

	updated, err := ctx.Habits.UpdateHabit(ctx.Background(), habit)
	if err != nil {
		return err
	}

	ctx.Printf("Updated habit: %s\n", updated.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	habit, err := ctx.Habits.Resolve(c.Habit)
	if err != nil {
		return err
	}

	if err := ctx.Habits.DeleteHabit(ctx.Background(), habit.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitListCmd struct {
	JSON bool `help:"Print habits as JSON."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	habits := ctx.Habits.Habits()

	if c.JSON {
		data, err := json.MarshalIndent(habits, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode habits: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Println("Habits:")
	for _, h := range habits {
		ctx.Printf("  %s  %s (%s)\n", h.Time, h.Name, utils.FormatRecurrence(h.Recurrence))
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	habit, err := ctx.Habits.Resolve(c.Habit)
	if err != nil {
		return err
	}
	summary := ctx.Habits.GetSummary(habit.ID)

	ctx.Printf("Name:     %s\n", habit.Name)
	ctx.Printf("ID:       %s\n", habit.ID)
	ctx.Printf("Time:     %s\n", habit.Time)
	ctx.Printf("Repeat:   %s\n", utils.FormatRecurrence(habit.Recurrence))
	ctx.Printf("Every:    %d\n", habit.RepeatValue)
	ctx.Printf("Created:  %s\n", habit.CreatedAt.Local().Format(constants.DateFormat))
	ctx.Printf("Progress: %.0f%% (%d/%d, %s)\n", summary.Rate, summary.Completed, summary.Total, summary.Level)
	return nil
}
