package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hebsync/hebsync/internal/common"
	"github.com/hebsync/hebsync/internal/dbx"
	"github.com/hebsync/hebsync/internal/gcal"
	"github.com/hebsync/hebsync/internal/hebcal"
	"github.com/hebsync/hebsync/internal/logging"
	"github.com/hebsync/hebsync/internal/retryx"
	sc "github.com/hebsync/hebsync/internal/server/config"
	"github.com/hebsync/hebsync/internal/server/models"
	"github.com/hebsync/hebsync/internal/server/repositories/repomanager"
)

// Orchestrator materializes Hebrew-year occurrences of one event on the
// external calendar and records them locally. Years fail independently;
// occurrences persist as a single batch; the watermark advances by
// compare-and-swap afterwards.
type Orchestrator struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	projector   *hebcal.Projector
	client      CalendarClient
	resolver    CalendarResolver

	external retryx.Policy
	store    retryx.Policy

	log logging.Logger
}

func NewOrchestrator(db *sql.DB, rm repomanager.RepositoryManager, config *sc.Config,
	projector *hebcal.Projector, client CalendarClient, resolver CalendarResolver, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		db:          db,
		repomanager: rm,
		projector:   projector,
		client:      client,
		resolver:    resolver,
		external: retryx.Policy{
			MaxAttempts: config.ExternalRetryAttempts,
			BaseDelay:   config.ExternalRetryBaseDelay,
			MaxDelay:    config.ExternalRetryMaxDelay,
			Exponential: true,
			RetryIf:     gcal.IsRetryable,
		},
		store: retryx.Policy{
			MaxAttempts: config.StoreRetryAttempts,
			BaseDelay:   config.StoreRetryBaseDelay,
			MaxDelay:    config.StoreRetryMaxDelay,
			Exponential: true,
			RetryIf:     dbx.IsTransient,
		},
		log: log,
	}
}

// stagedOccurrence is one confirmed external insert awaiting batch persist.
type stagedOccurrence struct {
	year       int
	date       time.Time
	externalID string
}

// SyncYears materializes the given Hebrew years of one event, ascending.
//
// A returned error with a non-nil outcome means the external side was
// (partially) written: on common.ErrWatermarkConflict the synced years
// stand, only the watermark advance lost a race with a concurrent run.
func (o *Orchestrator) SyncYears(ctx context.Context, user *models.UserSyncContext, token string,
	event *models.RecurringEvent, years []int) (*models.SyncOutcome, error) {

	outcome := &models.SyncOutcome{EventID: event.ID}
	if len(years) == 0 {
		return outcome, nil
	}

	ys := make([]int, len(years))
	copy(ys, years)
	sort.Ints(ys)

	// The CAS expectation is the watermark as read at sync start.
	expected := event.LastSyncedHebrewYear

	origin := event.Origin()
	calendarID := user.CalendarID
	var staged []stagedOccurrence

	// A user with no calendar bound yet gets one before the first insert.
	if calendarID == "" {
		id, err := o.healCalendar(ctx, user, token, "")
		if err != nil {
			return nil, fmt.Errorf("bind calendar: %w", err)
		}
		calendarID = id
	}

	for i, year := range ys {
		date, title := o.project(origin, year, event.Title)
		entry := models.CalendarEntry{
			Summary:     title,
			Description: event.Description,
			Date:        date,
			Tag:         event.ID,
		}

		externalID, err := o.insertOne(ctx, token, calendarID, entry)
		if err != nil && i == 0 && gcal.IsCalendarNotFound(err) {
			// On resolution failure the original insert error stands.
			if newID, healErr := o.healCalendar(ctx, user, token, calendarID); healErr == nil {
				calendarID = newID
				externalID, err = o.insertOne(ctx, token, calendarID, entry)
			}
		}
		if err != nil {
			outcome.YearErrors = append(outcome.YearErrors, models.YearError{Year: year, Err: err})
			o.log.Warn(ctx, "year sync failed",
				"event_id", event.ID, "hebrew_year", year, "error", err)
			continue
		}

		staged = append(staged, stagedOccurrence{year: year, date: date, externalID: externalID})
		outcome.SyncedYears = append(outcome.SyncedYears, year)
	}

	if len(staged) == 0 {
		return outcome, nil
	}

	if err := o.persistBatch(ctx, event.ID, staged); err != nil {
		return nil, fmt.Errorf("persist occurrences: %w", err)
	}

	maxYear := outcome.SyncedYears[len(outcome.SyncedYears)-1]
	if expected == nil || maxYear > *expected {
		if err := o.advanceWatermark(ctx, event, expected, maxYear); err != nil {
			return outcome, err
		}
		outcome.Watermark = &maxYear
	}

	return outcome, nil
}

// CatchUp syncs every year the event is behind per its progression status.
func (o *Orchestrator) CatchUp(ctx context.Context, user *models.UserSyncContext, token string,
	event *models.RecurringEvent, currentYear int) (*models.SyncOutcome, error) {

	progression := Progression(event, currentYear)
	if !progression.NeedsUpdate {
		return &models.SyncOutcome{EventID: event.ID}, nil
	}
	return o.SyncYears(ctx, user, token, event, progression.YearsNeedingSync)
}

// InitialPopulate materializes the bulk window of a newly created event.
func (o *Orchestrator) InitialPopulate(ctx context.Context, user *models.UserSyncContext, token string,
	event *models.RecurringEvent, currentYear int) (*models.SyncOutcome, error) {

	window := InitialWindow(event.HebrewYear, currentYear)
	return o.SyncYears(ctx, user, token, event, window.Years())
}

// project maps one Hebrew year to its observed Gregorian day and display
// title. Anniversaries after the origin get a "(n) " prefix.
func (o *Orchestrator) project(origin hebcal.HDate, year int, title string) (time.Time, string) {
	observed := hebcal.Anniversary(origin, year)
	date := *o.projector.Gregorian(observed)
	if n := year - origin.Year; n > 0 {
		title = fmt.Sprintf("(%d) %s", n, title)
	}
	return date, title
}

// insertOne creates the external entry for one occurrence. A previous run's
// entry is probed for first, so re-running after a crash or a lost batch
// persist reuses the existing entry instead of double-inserting. Probe
// failures only cost that protection.
func (o *Orchestrator) insertOne(ctx context.Context, token, calendarID string, entry models.CalendarEntry) (string, error) {
	if id, err := o.client.FindEventByTag(ctx, token, calendarID, entry.Tag, entry.Date); err != nil {
		o.log.Warn(ctx, "duplicate probe failed", "calendar_id", calendarID, "error", err)
	} else if id != "" {
		o.log.Debug(ctx, "occurrence already on calendar", "tag", entry.Tag, "external_id", id)
		return id, nil
	}

	return retryx.DoWithResult(ctx, o.external, func(ctx context.Context) (string, error) {
		return o.client.InsertEvent(ctx, token, calendarID, entry)
	})
}

// healCalendar resolves (or creates) the target calendar, persists its id,
// and mutates the sync context in place. It serves both a stale binding
// (first-year 404) and a user with no calendar bound yet.
func (o *Orchestrator) healCalendar(ctx context.Context, user *models.UserSyncContext, token,
	staleID string) (string, error) {

	newID, created, err := o.resolver.EnsureCalendarExists(ctx, token, user.UserID, staleID)
	if err != nil {
		o.log.Warn(ctx, "calendar resolution failed", "user_id", user.UserID, "error", err)
		return "", err
	}

	if err := o.repomanager.Users(o.db).UpdateCalendarID(ctx, user.UserID, newID); err != nil {
		// The calendar works for this run; the next run heals again.
		o.log.Warn(ctx, "could not persist healed calendar id",
			"user_id", user.UserID, "calendar_id", newID, "error", err)
	}
	user.CalendarID = newID

	o.log.Info(ctx, "resolved target calendar",
		"user_id", user.UserID, "calendar_id", newID, "created", created)
	return newID, nil
}

// persistBatch writes all staged occurrences in one transaction, retried as
// a whole under the store policy.
func (o *Orchestrator) persistBatch(ctx context.Context, eventID string, staged []stagedOccurrence) error {
	return retryx.Do(ctx, o.store, func(ctx context.Context) error {
		return dbx.WithTx(ctx, o.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := o.repomanager.Occurrences(tx)
			for _, s := range staged {
				occ := &models.EventOccurrence{
					ID:              uuid.NewString(),
					EventID:         eventID,
					Date:            s.date,
					ExternalEventID: s.externalID,
				}
				if _, err := repo.Create(ctx, occ); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// advanceWatermark moves the stored watermark to maxYear if and only if it
// still holds the value read at sync start. Losing the race is reported,
// not rolled back: the occurrences already exist.
func (o *Orchestrator) advanceWatermark(ctx context.Context, event *models.RecurringEvent, expected *int, maxYear int) error {
	err := retryx.Do(ctx, o.store, func(ctx context.Context) error {
		return o.repomanager.Events(o.db).UpdateWatermark(ctx, event.ID, expected, maxYear)
	})
	if err != nil {
		if errors.Is(err, common.ErrWatermarkConflict) {
			o.log.Warn(ctx, "watermark advance lost to a concurrent run", "event_id", event.ID)
			return common.ErrWatermarkConflict
		}
		return fmt.Errorf("advance watermark: %w", err)
	}

	year := maxYear
	event.LastSyncedHebrewYear = &year
	return nil
}
