// Package server wires configuration, storage, services and the REST API
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/rest"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	gfshutdown "github.com/gelmium/graceful-shutdown"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	rest   *rest.Server
}

// seams for tests
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open(repomanager.DriverName, dsn)
	}
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

// NewApp opens the database, applies migrations and builds the HTTP server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return newApp(c, logger, db, rm), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	if c.UsesDefaultSecret() {
		logger.Warn(context.Background(), "session tokens are signed with the built-in development secret; set TASKKEEPER_SECRET_KEY or -s")
	}

	tokens := auth.NewTokenService(c.SecretKeyID, []byte(c.SecretKey))
	hasher := auth.NewPasswordHasher(c.BcryptCost)

	us := services.NewUserService(db, rm, hasher, tokens, c.AccessTokenValidityDuration)
	ts := services.NewTaskService(db, rm, c.PageSize)

	srv := rest.NewServer(c.EndpointAddrHTTP, logger, us, ts, auth.NewGate(tokens), db)

	return &App{config: c, logger: logger, db: db, rest: srv}
}

// shutdown drains the HTTP server, then closes the database pool.
func (app *App) shutdown(ctx context.Context) error {
	if err := app.rest.Shutdown(ctx); err != nil {
		app.logger.Error(ctx, "http server shutdown failed", "error", err)
	}
	return app.db.Close()
}

// Run serves HTTP until SIGINT/SIGTERM and returns the process exit code.
func (app *App) Run(ctx context.Context) int {
	app.logger.Info(ctx, "Starting app...")

	failed := make(chan error, 1)
	go func() {
		if err := app.rest.Run(ctx); err != nil {
			failed <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, app.config.ShutdownTimeout, map[string]gfshutdown.Operation{
		"app": app.shutdown,
	})

	select {
	case code := <-wait:
		app.logger.Info(ctx, "App stopped", "exit_code", code)
		return code
	case err := <-failed:
		app.logger.Error(ctx, "http server failed", "error", err)
		sctx, cancel := context.WithTimeout(ctx, app.config.ShutdownTimeout)
		defer cancel()
		if err := app.shutdown(sctx); err != nil {
			app.logger.Error(ctx, "shutdown failed", "error", err)
		}
		return 1
	}
}
