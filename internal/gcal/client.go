// Package gcal implements the Google Calendar side of the sync engine: a
// thin calendar/v3 client bound to per-user OAuth tokens, error
// classification for the retry policies, and the resolver that finds or
// creates the dedicated target calendar.
package gcal

import (
	"context"
	"fmt"
	"time"

	"github.com/hebsync/hebsync/internal/common"
	"github.com/hebsync/hebsync/internal/server/models"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// dateLayout is the all-day date format of the Calendar API.
const dateLayout = "2006-01-02"

// Client wraps the calendar/v3 API. Tokens are per user and per call, so a
// service is built for each request from the caller's access token.
type Client struct {
	// endpoint overrides the API base URL; empty means the Google default.
	endpoint string
}

func NewClient() *Client {
	return &Client{}
}

// NewClientWithEndpoint points the client at an alternative API base URL.
// Tests use it to talk to a local server.
func NewClientWithEndpoint(endpoint string) *Client {
	return &Client{endpoint: endpoint}
}

func (c *Client) service(ctx context.Context, token string) (*calendar.Service, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})),
	}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return svc, nil
}

// InsertEvent creates one all-day event carrying the provenance tag as a
// private extended property and returns the external event id.
func (c *Client) InsertEvent(ctx context.Context, token, calendarID string, entry models.CalendarEntry) (string, error) {
	svc, err := c.service(ctx, token)
	if err != nil {
		return "", err
	}

	ev := &calendar.Event{
		Summary:     entry.Summary,
		Description: entry.Description,
		Start:       &calendar.EventDateTime{Date: entry.Date.Format(dateLayout)},
		End:         &calendar.EventDateTime{Date: entry.Date.AddDate(0, 0, 1).Format(dateLayout)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{common.EventTagKey: entry.Tag},
		},
	}

	created, err := svc.Events.Insert(calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return created.Id, nil
}

// FindEventByTag looks for an event tagged with the given provenance tag on
// the given day. It returns the external id, or "" when nothing matches.
func (c *Client) FindEventByTag(ctx context.Context, token, calendarID, tag string, date time.Time) (string, error) {
	svc, err := c.service(ctx, token)
	if err != nil {
		return "", err
	}

	day := date.Format(dateLayout)
	// The query window is padded one day on both sides; all-day events
	// are filtered by the calendar's own zone, which may not be UTC.
	timeMin := date.AddDate(0, 0, -1).Format(time.RFC3339)
	timeMax := date.AddDate(0, 0, 2).Format(time.RFC3339)

	list, err := svc.Events.List(calendarID).
		PrivateExtendedProperty(common.EventTagKey+"="+tag).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		MaxResults(50).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}

	for _, item := range list.Items {
		if item.Start != nil && item.Start.Date == day {
			return item.Id, nil
		}
	}
	return "", nil
}

// GetCalendar probes the calendar's existence.
func (c *Client) GetCalendar(ctx context.Context, token, calendarID string) error {
	svc, err := c.service(ctx, token)
	if err != nil {
		return err
	}
	if _, err := svc.Calendars.Get(calendarID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("get calendar: %w", err)
	}
	return nil
}

// ListCalendars returns the user's calendar list across all pages.
func (c *Client) ListCalendars(ctx context.Context, token string) ([]models.CalendarInfo, error) {
	svc, err := c.service(ctx, token)
	if err != nil {
		return nil, err
	}

	var result []models.CalendarInfo
	pageToken := ""
	for {
		call := svc.CalendarList.List().Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list calendars: %w", err)
		}
		for _, item := range page.Items {
			result = append(result, models.CalendarInfo{ID: item.Id, Summary: item.Summary})
		}
		if page.NextPageToken == "" {
			return result, nil
		}
		pageToken = page.NextPageToken
	}
}

// CreateCalendar creates a new secondary calendar and returns its id.
func (c *Client) CreateCalendar(ctx context.Context, token, name string) (string, error) {
	svc, err := c.service(ctx, token)
	if err != nil {
		return "", err
	}
	cal, err := svc.Calendars.Insert(&calendar.Calendar{Summary: name}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create calendar: %w", err)
	}
	return cal.Id, nil
}
