package system

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitcontrol/internal/api"
	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/constants"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on." default:"${serve_addr}" env:"HABITCONTROL_ADDR"`
}

func (cmd *ServeCmd) Run(ctx *cli.Context) error {
	s, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	addr := cmd.Addr
	if addr == "" {
		addr = constants.DefaultServeAddr
	}

	sigCtx, stop := signal.NotifyContext(ctx.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Serving habits for %s on http://%s (Ctrl+C to stop)\n", s.Email, addr)
	return api.New(ctx.Habits).ListenAndServe(sigCtx, addr)
}
