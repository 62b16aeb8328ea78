package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hebsync/hebsync/internal/common"
	"github.com/hebsync/hebsync/internal/hebcal"
	"github.com/hebsync/hebsync/internal/logging"
	"github.com/hebsync/hebsync/internal/server/models"
	"github.com/hebsync/hebsync/internal/server/repositories/repomanager"
)

// EventService is the application-facing facade for recurring events:
// validated creation with initial population, manual sync, and the
// projection read side.
type EventService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	projector   *hebcal.Projector
	syncer      Syncer
	credentials CredentialProvider
	log         logging.Logger
	now         func() time.Time
}

func NewEventService(db *sql.DB, rm repomanager.RepositoryManager,
	projector *hebcal.Projector, syncer Syncer, credentials CredentialProvider,
	log logging.Logger) *EventService {
	return &EventService{
		db:          db,
		repomanager: rm,
		projector:   projector,
		syncer:      syncer,
		credentials: credentials,
		log:         log,
		now:         time.Now,
	}
}

// CreateEventParams holds the caller-supplied fields of a new event. The
// Hebrew components use hebcal month numbering (Nisan=1 ... Adar II=13).
type CreateEventParams struct {
	UserID      string
	Title       string
	Description string
	HebrewDay   int
	HebrewMonth int
	HebrewYear  int
}

func (p CreateEventParams) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	origin := hebcal.HDate{Year: p.HebrewYear, Month: p.HebrewMonth, Day: p.HebrewDay}
	if err := origin.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// CreateEvent stores a new recurring event and runs the initial window
// population. A non-nil event alongside a non-nil error or nil outcome
// means the event was stored but population did not complete; the next
// sweep catches it up.
func (s *EventService) CreateEvent(ctx context.Context, params CreateEventParams) (*models.RecurringEvent, *models.SyncOutcome, error) {
	if err := params.validate(); err != nil {
		return nil, nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, params.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	event := &models.RecurringEvent{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Title:       params.Title,
		Description: params.Description,
		HebrewDay:   params.HebrewDay,
		HebrewMonth: params.HebrewMonth,
		HebrewYear:  params.HebrewYear,
		Recurrence:  models.RecurrenceAnnualHebrew,
	}
	event, err = s.repomanager.Events(s.db).Create(ctx, event)
	if err != nil {
		return nil, nil, fmt.Errorf("create event: %w", err)
	}
	s.log.Info(ctx, "event created", "event_id", event.ID, "user_id", user.ID,
		"origin", event.Origin().String())

	token, err := s.credentials.GetValidAccessToken(ctx, user.ID)
	if err != nil {
		s.log.Warn(ctx, "initial population deferred, no usable credential",
			"event_id", event.ID, "error", err)
		return event, nil, nil
	}

	syncCtx := &models.UserSyncContext{UserID: user.ID, CalendarID: user.CalendarID}
	outcome, err := s.syncer.InitialPopulate(ctx, syncCtx, token, event, hebcal.YearOf(s.now()))
	if err != nil {
		return event, outcome, fmt.Errorf("initial population: %w", err)
	}
	return event, outcome, nil
}

// ListEvents returns the user's recurring events.
func (s *EventService) ListEvents(ctx context.Context, userID string) ([]*models.RecurringEvent, error) {
	return s.repomanager.Events(s.db).ListByUser(ctx, userID)
}

// ListOccurrences returns the persisted (already synced) occurrences of one
// event, oldest first.
func (s *EventService) ListOccurrences(ctx context.Context, eventID string) ([]*models.EventOccurrence, error) {
	return s.repomanager.Occurrences(s.db).ListByEvent(ctx, eventID)
}

// OccurrencesInRange projects the user's events onto Gregorian dates inside
// [start, end]. Pure computation over the projector; persisted occurrence
// rows are not consulted.
func (s *EventService) OccurrencesInRange(ctx context.Context, userID string, start, end time.Time) ([]hebcal.Projection, error) {
	events, err := s.repomanager.Events(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	series := make([]hebcal.Series, 0, len(events))
	for _, e := range events {
		series = append(series, hebcal.Series{ID: e.ID, Origin: e.Origin()})
	}
	return s.projector.OccurrencesInRange(series, start, end), nil
}

// SyncEvent manually syncs one event. With no years given it catches the
// event up to the current Hebrew year; with explicit years it re-syncs
// exactly those (gap repair after partial failures).
func (s *EventService) SyncEvent(ctx context.Context, eventID string, years []int) (*models.SyncOutcome, error) {
	event, err := s.repomanager.Events(s.db).GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	for _, y := range years {
		if y < event.HebrewYear {
			return nil, fmt.Errorf("%w: year %d precedes origin year %d", common.ErrValidation, y, event.HebrewYear)
		}
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, event.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	token, err := s.credentials.GetValidAccessToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	syncCtx := &models.UserSyncContext{UserID: user.ID, CalendarID: user.CalendarID}
	if len(years) == 0 {
		return s.syncer.CatchUp(ctx, syncCtx, token, event, hebcal.YearOf(s.now()))
	}
	return s.syncer.SyncYears(ctx, syncCtx, token, event, years)
}

// EventSyncResult pairs one event's catch-up outcome with the error that
// stopped it, for manual per-user syncs.
type EventSyncResult struct {
	EventID string
	Outcome *models.SyncOutcome
	Err     error
}

// SyncUser catches up every event of one user, returning one result per
// event. Individual event failures do not stop the pass.
func (s *EventService) SyncUser(ctx context.Context, userID string) ([]EventSyncResult, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	token, err := s.credentials.GetValidAccessToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	events, err := s.repomanager.Events(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	syncCtx := &models.UserSyncContext{UserID: user.ID, CalendarID: user.CalendarID}
	currentYear := hebcal.YearOf(s.now())
	results := make([]EventSyncResult, 0, len(events))
	for _, event := range events {
		outcome, err := s.syncer.CatchUp(ctx, syncCtx, token, event, currentYear)
		if err != nil {
			s.log.Warn(ctx, "catch-up failed", "event_id", event.ID, "error", err)
		}
		results = append(results, EventSyncResult{EventID: event.ID, Outcome: outcome, Err: err})
	}
	return results, nil
}
