package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	mirror *session.Mirror
	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the token database, builds the HTTP client and wires both
// into a session mirror whose transitions are printed to stdout.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	db, err := client.InitDatabase(ctx, cfg.TokenDB)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", cfg.TokenDB, "error", err)
		return nil, err
	}

	store := session.NewMetadataTokenStore(metadata.NewSQLiteRepository(db))
	api := client.NewHTTPClient(cfg.BackendURL, cfg.RequestTimeout)

	a := newApp(cfg, logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	a.mirror = session.NewMirror(api, store, session.NavigatorFunc(a.navigate), logger, cfg.RequestTimeout)
	return a, nil
}

func newApp(cfg *config.Config, logger logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	return &App{config: cfg, logger: logger, reader: reader, out: out}
}

// Run restores the previous session and serves the REPL until the user
// exits or input ends. The token database is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.mirror.Bootstrap(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	fmt.Fprintln(a.out, "gophauth CLI (type 'help' for commands)")
	if u := a.mirror.User(); u != nil {
		fmt.Fprintf(a.out, "Welcome back, %s\n", u.Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.mirror.User() != nil
}

func (a *App) getStatus() string {
	if u := a.mirror.User(); u != nil {
		return u.Username
	}
	return "guest"
}

func (a *App) navigate(v session.View) {
	switch v {
	case session.ViewProfile:
		if u := a.mirror.User(); u != nil {
			fmt.Fprintf(a.out, "Logged in as %s\n", u.Username)
		} else {
			fmt.Fprintln(a.out, "Logged in, but the profile could not be loaded")
		}
	case session.ViewSuccess:
		fmt.Fprintln(a.out, "Registration successful. You can log in now.")
	case session.ViewHome:
		fmt.Fprintln(a.out, "Logged out")
	}
}
