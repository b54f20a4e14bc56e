// Package app initializes and runs the SecureStash server. It configures
// the storage backend, assembles the domain services behind the access
// controller, and runs the HTTP API with graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/securestash/securestash/internal/access"
	"github.com/securestash/securestash/internal/config"
	"github.com/securestash/securestash/internal/db"
	"github.com/securestash/securestash/internal/httpapi"
	"github.com/securestash/securestash/internal/identity"
	"github.com/securestash/securestash/internal/logging"
	"github.com/securestash/securestash/internal/session"
	"github.com/securestash/securestash/internal/vault"
	"github.com/securestash/securestash/internal/verification"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager db.RepositoryManager
	api     *httpapi.API
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := db.NewRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	identities := identity.NewService(manager.Accounts())
	sessions := session.NewStore(manager.Sessions(), logger)
	credentials := vault.NewStore(manager.Credentials(), logger)

	var dispatcher verification.Dispatcher
	if c.SMTPAddr != "" {
		dispatcher = verification.NewSMTPDispatcher(c.SMTPAddr, c.SMTPFrom, c.SMTPUsername, c.SMTPPassword)
	} else {
		dispatcher = verification.NewLogDispatcher(logger)
	}

	gate := verification.NewGate(credentials, dispatcher, verification.Policy{
		MaxAttempts: c.VerificationMaxAttempts,
		CodeTTL:     c.VerificationCodeTTL,
	}, logger)

	control := access.NewController(sessions, credentials, gate, logger)

	api := httpapi.New(identities, sessions, control,
		[]byte(c.SecretKey), c.AccessTokenValidityDuration, logger)

	return &App{config: c, logger: logger, manager: manager, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http server shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "app stopped")
}
