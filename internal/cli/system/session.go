package system

import (
	"fmt"

	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/constants"
)

type LoginCmd struct {
	Email string `arg:"" help:"Email address of the profile to sign in as."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if ctx.Sessions == nil {
		return fmt.Errorf("no session provider configured")
	}
	profile, err := ctx.Sessions.SignIn(c.Email)
	if err != nil {
		return err
	}

	ctx.Printf("✓ Signed in as %s\n", profile.Email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if ctx.Sessions == nil {
		return fmt.Errorf("no session provider configured")
	}
	if err := ctx.Sessions.SignOut(); err != nil {
		return err
	}
	if ctx.Habits != nil {
		ctx.Habits.SignOut()
	}

	ctx.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	if ctx.Sessions == nil {
		return fmt.Errorf("no session provider configured")
	}
	profile, ok, err := ctx.Sessions.Profile()
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Not signed in. Use 'habitcontrol login <email>' to sign in.")
		return nil
	}

	ctx.Printf("Email:   %s\n", profile.Email)
	ctx.Printf("Owner:   %s\n", profile.ID)
	ctx.Printf("Since:   %s\n", profile.CreatedAt.Local().Format(constants.DateFormat))
	return nil
}
