// Package server wires and runs the hebsync daemon. It connects to
// PostgreSQL, applies migrations, and keeps the sync scheduler sweeping
// until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hebsync/hebsync/internal/gcal"
	"github.com/hebsync/hebsync/internal/googleauth"
	"github.com/hebsync/hebsync/internal/hebcal"
	"github.com/hebsync/hebsync/internal/logging"
	"github.com/hebsync/hebsync/internal/server/config"
	"github.com/hebsync/hebsync/internal/server/repositories/repomanager"
	"github.com/hebsync/hebsync/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	scheduler   *services.Scheduler
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	projector := hebcal.NewProjector(c.ProjectorCacheSize)
	client := gcal.NewClient()
	resolver := gcal.NewResolver(client, c.CalendarName, logger.With("component", "resolver"))

	vault := googleauth.NewVault(c.TokenKey)
	credentials := googleauth.NewProvider(db, rm, vault, c.GoogleClientID, c.GoogleClientSecret,
		logger.With("component", "googleauth"))

	orchestrator := services.NewOrchestrator(db, rm, c, projector, client, resolver,
		logger.With("component", "orchestrator"))
	scheduler := services.NewScheduler(db, rm, c, credentials, orchestrator,
		logger.With("component", "scheduler"))

	return &App{config: c, logger: logger, db: db, repomanager: rm, scheduler: scheduler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting hebsync server")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err)
		return
	}

	if err := app.scheduler.Start(ctx); err != nil {
		app.logger.Error(ctx, "scheduler start error", "error", err)
		return
	}

	<-ctx.Done()

	app.scheduler.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "server stopped")
}
