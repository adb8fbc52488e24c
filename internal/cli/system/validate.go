package system

import (
	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	ctx.Println("Validating habits...")
	result := validation.New().ValidateHabits(ctx.Habits.Habits())

	ctx.Println()
	ctx.Println(result.FormatReport())

	// Conflicts are reported, not treated as a command failure
	return nil
}
