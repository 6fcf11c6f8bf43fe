package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/nexusauth/internal/client/client"
	"github.com/dmitrijs2005/nexusauth/internal/client/config"
	"github.com/dmitrijs2005/nexusauth/internal/client/db"
	"github.com/dmitrijs2005/nexusauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nexusauth/internal/client/services"
	"github.com/dmitrijs2005/nexusauth/internal/client/session"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	db          *sql.DB
	user        *session.Profile
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	conn, err := db.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	sessions := session.NewCache(metadata.NewSQLiteRepository(conn))
	as := services.NewAuthService(apiClient, sessions)

	return &App{
		config:      c,
		authService: as,
		db:          conn,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.user.Username)
}

// Run restores a cached session and serves the REPL until the user exits or
// stdin closes.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	fmt.Fprintln(a.out, "Welcome to nexusauth CLI (type 'help' for commands)")
	a.restoreSession(ctx)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) restoreSession(ctx context.Context) {
	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, services.ErrNotSignedIn) {
			log.Printf("could not read cached session: %v", err)
		}
		return
	}
	a.user = user
	fmt.Fprintf(a.out, "Welcome back, %s!\n", user.FullName)
}
