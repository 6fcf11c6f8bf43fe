// Package server assembles the nexusauth server: logger, credential store,
// password hasher, mailer, auth service and the HTTP endpoint. It runs until
// SIGINT/SIGTERM/SIGQUIT or until the parent context is cancelled.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/nexusauth/internal/logging"
	"github.com/dmitrijs2005/nexusauth/internal/server/config"
	"github.com/dmitrijs2005/nexusauth/internal/server/httpapi"
	"github.com/dmitrijs2005/nexusauth/internal/server/mailer"
	"github.com/dmitrijs2005/nexusauth/internal/server/passwords"
	"github.com/dmitrijs2005/nexusauth/internal/server/services"
	"github.com/dmitrijs2005/nexusauth/internal/server/storage"
)

// logOutput is where the server writes its JSON log lines.
var logOutput io.Writer = os.Stdout

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       *storage.Store
	authService *services.AuthService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, c.LogLevel)

	store, err := storage.Open(ctx, storage.Config{
		Backend:   c.Store,
		UsersFile: c.UsersFile,
		DSN:       c.DatabaseDSN,
	}, logger.With("module", "storage"))
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	sender := mailer.New(mailer.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	}, logger.With("module", "mailer"))

	as := services.NewAuthService(
		store.Users,
		passwords.NewHasher(passwords.DefaultParams),
		sender,
		logger.With("module", "auth_service"),
		c.RequireVerified,
	)

	return &App{config: c, logger: logger, store: store, authService: as}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(httpapi.Config{
		Address:         app.config.Address,
		Path:            app.config.Path,
		RateRPS:         app.config.RateRPS,
		RateBurst:       app.config.RateBurst,
		ShutdownTimeout: app.config.ShutdownTimeout,
	}, app.authService, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.store.Backend)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "failed to close store", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
