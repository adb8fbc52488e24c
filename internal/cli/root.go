package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitcontrol/internal/backup"
	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/habits"
	"github.com/julianstephens/habitcontrol/internal/logger"
	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/session"
	"github.com/julianstephens/habitcontrol/internal/storage"
	"github.com/julianstephens/habitcontrol/internal/storage/sqlite"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

type Context struct {
	Store    storage.Provider
	Habits   *habits.Store
	Sessions *session.KeyringProvider

	// Ctx bounds storage calls; nil means context.Background()
	Ctx context.Context
	// Out receives command output; nil means os.Stdout
	Out io.Writer
	// In supplies confirmations; nil means os.Stdin
	In io.Reader
}

// NewContext wires a habit store over the given provider.
func NewContext(store storage.Provider, sessions *session.KeyringProvider, opts ...habits.Option) *Context {
	return &Context{
		Store:    store,
		Habits:   habits.NewFromProvider(store, opts...),
		Sessions: sessions,
	}
}

func (c *Context) Background() context.Context {
	if c.Ctx != nil {
		return c.Ctx
	}
	return context.Background()
}

func (c *Context) Writer() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Context) Reader() io.Reader {
	if c.In != nil {
		return c.In
	}
	return os.Stdin
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.Reader()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// Printf writes formatted command output
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

// Println writes a line of command output
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

// SignIn loads the signed-in profile's data into the habit store. Without a
// stored profile the store stays signed out.
func (c *Context) SignIn() error {
	if c.Sessions == nil {
		return nil
	}
	s, ok, err := c.Sessions.Current()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		logger.Debug("No profile signed in")
		return nil
	}
	return c.Habits.SignIn(c.Background(), s)
}

// RequireSession fails with a login hint when no profile is signed in.
func (c *Context) RequireSession() (models.Session, error) {
	s, ok := c.Habits.Session()
	if !ok {
		return models.Session{}, fmt.Errorf("%w: run 'habitcontrol login <email>' first", apperrors.ErrAuthenticationRequired)
	}
	return s, nil
}

// ResolveDate parses a YYYY-MM-DD flag, defaulting to today.
func (c *Context) ResolveDate(value string) (time.Time, error) {
	return utils.DateOrToday(value, c.Habits.Now())
}

// SQLiteStore returns the SQLite provider, or false for other backends.
func (c *Context) SQLiteStore() (*sqlite.Store, bool) {
	s, ok := c.Store.(*sqlite.Store)
	return s, ok
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.SQLiteStore(); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Print writes command output without a newline
func (c *Context) Print(args ...interface{}) {
	fmt.Fprint(c.Writer(), args...)
}
