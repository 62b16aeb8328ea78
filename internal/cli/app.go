// Package cli implements the hebsync admin console: an interactive shell
// for registering users and credentials, creating events, and driving
// manual syncs against the live database.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hebsync/hebsync/internal/gcal"
	"github.com/hebsync/hebsync/internal/googleauth"
	"github.com/hebsync/hebsync/internal/hebcal"
	"github.com/hebsync/hebsync/internal/logging"
	"github.com/hebsync/hebsync/internal/server/config"
	"github.com/hebsync/hebsync/internal/server/models"
	"github.com/hebsync/hebsync/internal/server/repositories/repomanager"
	"github.com/hebsync/hebsync/internal/server/services"
)

// The console consumes narrow slices of the service layer so commands can
// be tested against fakes.

type userService interface {
	CreateUser(ctx context.Context) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	SetSyncEnabled(ctx context.Context, userID string, enabled bool) error
}

type eventService interface {
	CreateEvent(ctx context.Context, params services.CreateEventParams) (*models.RecurringEvent, *models.SyncOutcome, error)
	ListEvents(ctx context.Context, userID string) ([]*models.RecurringEvent, error)
	ListOccurrences(ctx context.Context, eventID string) ([]*models.EventOccurrence, error)
	OccurrencesInRange(ctx context.Context, userID string, start, end time.Time) ([]hebcal.Projection, error)
	SyncEvent(ctx context.Context, eventID string, years []int) (*models.SyncOutcome, error)
	SyncUser(ctx context.Context, userID string) ([]services.EventSyncResult, error)
}

type credentialStore interface {
	StoreRefreshToken(ctx context.Context, userID, refreshToken string) error
}

type sweeper interface {
	Sweep(ctx context.Context) (*services.SweepReport, error)
}

type App struct {
	config  *config.Config
	db      *sql.DB
	users   userService
	events  eventService
	tokens  credentialStore
	sweeper sweeper
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	// Service-level chatter goes to stderr; the console owns stdout.
	slog := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	projector := hebcal.NewProjector(c.ProjectorCacheSize)
	client := gcal.NewClient()
	resolver := gcal.NewResolver(client, c.CalendarName, logger)

	vault := googleauth.NewVault(c.TokenKey)
	credentials := googleauth.NewProvider(db, rm, vault, c.GoogleClientID, c.GoogleClientSecret, logger)

	orchestrator := services.NewOrchestrator(db, rm, c, projector, client, resolver, logger)

	return &App{
		config:  c,
		db:      db,
		users:   services.NewUserService(db, rm, logger),
		events:  services.NewEventService(db, rm, projector, orchestrator, credentials, logger),
		tokens:  credentials,
		sweeper: services.NewScheduler(db, rm, c, credentials, orchestrator, logger),
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}
