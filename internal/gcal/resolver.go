package gcal

import (
	"context"

	"github.com/hebsync/hebsync/internal/logging"
	"github.com/hebsync/hebsync/internal/server/models"
)

// CalendarAPI is the slice of the client the resolver needs.
type CalendarAPI interface {
	GetCalendar(ctx context.Context, token, calendarID string) error
	ListCalendars(ctx context.Context, token string) ([]models.CalendarInfo, error)
	CreateCalendar(ctx context.Context, token, name string) (string, error)
}

// Resolver locates the user's dedicated calendar by its configured summary,
// creating it when absent.
type Resolver struct {
	client       CalendarAPI
	calendarName string
	log          logging.Logger
}

func NewResolver(client CalendarAPI, calendarName string, log logging.Logger) *Resolver {
	return &Resolver{client: client, calendarName: calendarName, log: log}
}

// EnsureCalendarExists verifies the stored calendar id, falling back to a
// lookup by summary and finally to creation. It returns the calendar to use
// and whether it was created on this call.
func (r *Resolver) EnsureCalendarExists(ctx context.Context, token, userID, currentCalendarID string) (string, bool, error) {
	if currentCalendarID != "" {
		err := r.client.GetCalendar(ctx, token, currentCalendarID)
		if err == nil {
			return currentCalendarID, false, nil
		}
		if !IsCalendarNotFound(err) {
			return "", false, err
		}
		r.log.Warn(ctx, "stored calendar is gone, resolving a new one",
			"user_id", userID, "calendar_id", currentCalendarID)
	}

	infos, err := r.client.ListCalendars(ctx, token)
	if err != nil {
		return "", false, err
	}
	for _, info := range infos {
		if info.Summary == r.calendarName {
			return info.ID, false, nil
		}
	}

	id, err := r.client.CreateCalendar(ctx, token, r.calendarName)
	if err != nil {
		return "", false, err
	}
	r.log.Info(ctx, "created dedicated calendar", "user_id", userID, "calendar_id", id)
	return id, true, nil
}
