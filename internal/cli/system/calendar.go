package system

import (
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/habitcontrol/internal/calendar"
	"github.com/julianstephens/habitcontrol/internal/cli"
)

type ExportCmd struct {
	Ical ExportIcalCmd `cmd:"" help:"Export habits as an iCalendar feed."`
}

type ImportCmd struct {
	Ical ImportIcalCmd `cmd:"" help:"Import habits from an iCalendar file."`
}

type ExportIcalCmd struct {
	Output   string        `short:"o" help:"Write to this file instead of stdout." type:"path"`
	From     string        `help:"First date events may start on (default: today)."`
	Duration time.Duration `help:"Length of each event." default:"15m"`
}

func (cmd *ExportIcalCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	from, err := ctx.ResolveDate(cmd.From)
	if err != nil {
		return err
	}

	out := calendar.Export(ctx.Habits.Habits(), calendar.Options{
		From:     from,
		Duration: cmd.Duration,
		Stamp:    ctx.Habits.Now(),
	})

	if cmd.Output == "" {
		ctx.Print(out)
		return nil
	}
	if err := os.WriteFile(cmd.Output, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	ctx.Printf("✓ Calendar written to %s\n", cmd.Output)
	return nil
}

type ImportIcalCmd struct {
	File string `arg:"" help:"iCalendar file to read." type:"existingfile"`
}

func (cmd *ImportIcalCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	f, err := os.Open(cmd.File)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := calendar.Parse(f)
	if err != nil {
		return err
	}

	imported, skipped := 0, 0
	for _, e := range entries {
		in, err := e.HabitInput()
		if err != nil {
			ctx.Printf("  Skipped %q: %v\n", e.Summary, err)
			skipped++
			continue
		}
		if _, err := ctx.Habits.Resolve(in.Name); err == nil {
			ctx.Printf("  Skipped %q: a habit with this name exists\n", in.Name)
			skipped++
			continue
		}
		if _, err := ctx.Habits.CreateHabit(ctx.Background(), in); err != nil {
			return fmt.Errorf("failed to import %q: %w", in.Name, err)
		}
		imported++
	}

	ctx.Printf("Imported %d habit(s), skipped %d\n", imported, skipped)
	return nil
}
