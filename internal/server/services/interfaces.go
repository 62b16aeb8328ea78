// Package services holds the application core of the sync engine: the
// window calculator, the per-event sync orchestrator, the sweep scheduler,
// and the event/user facades the CLI talks to. External collaborators enter
// through the interfaces declared here.
package services

import (
	"context"
	"time"

	"github.com/hebsync/hebsync/internal/server/models"
)

// CalendarClient is the external calendar surface the orchestrator writes
// through. Implemented by gcal.Client.
type CalendarClient interface {
	// InsertEvent creates an all-day event and returns its external id.
	InsertEvent(ctx context.Context, token, calendarID string, entry models.CalendarEntry) (string, error)
	// FindEventByTag returns the id of an event carrying the provenance
	// tag on the given day, or "" when nothing matches.
	FindEventByTag(ctx context.Context, token, calendarID, tag string, date time.Time) (string, error)
	GetCalendar(ctx context.Context, token, calendarID string) error
	ListCalendars(ctx context.Context, token string) ([]models.CalendarInfo, error)
	CreateCalendar(ctx context.Context, token, name string) (string, error)
}

// CalendarResolver finds or creates the dedicated target calendar.
// Implemented by gcal.Resolver.
type CalendarResolver interface {
	EnsureCalendarExists(ctx context.Context, token, userID, currentCalendarID string) (calendarID string, created bool, err error)
}

// CredentialProvider yields a usable access token for a user. Any error
// means "skip this user this sweep". Implemented by googleauth.Provider.
type CredentialProvider interface {
	GetValidAccessToken(ctx context.Context, userID string) (string, error)
}

// Syncer is the orchestrator surface the event service and the scheduler
// drive.
type Syncer interface {
	SyncYears(ctx context.Context, user *models.UserSyncContext, token string, event *models.RecurringEvent, years []int) (*models.SyncOutcome, error)
	CatchUp(ctx context.Context, user *models.UserSyncContext, token string, event *models.RecurringEvent, currentYear int) (*models.SyncOutcome, error)
	InitialPopulate(ctx context.Context, user *models.UserSyncContext, token string, event *models.RecurringEvent, currentYear int) (*models.SyncOutcome, error)
}
