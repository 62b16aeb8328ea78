package gcal

import (
	"context"
	"errors"
	"testing"

	"github.com/hebsync/hebsync/internal/logging"
	"github.com/hebsync/hebsync/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type fakeAPI struct {
	getErr    error
	listInfos []models.CalendarInfo
	listErr   error
	createID  string
	createErr error

	getCalls, listCalls, createCalls int
	lastCreateName                   string
}

func (f *fakeAPI) GetCalendar(ctx context.Context, token, calendarID string) error {
	f.getCalls++
	return f.getErr
}

func (f *fakeAPI) ListCalendars(ctx context.Context, token string) ([]models.CalendarInfo, error) {
	f.listCalls++
	return f.listInfos, f.listErr
}

func (f *fakeAPI) CreateCalendar(ctx context.Context, token, name string) (string, error) {
	f.createCalls++
	f.lastCreateName = name
	return f.createID, f.createErr
}

func TestEnsureCalendarExists_CurrentStillValid(t *testing.T) {
	api := &fakeAPI{}
	r := NewResolver(api, "Hebrew Dates", logging.NewNop())

	id, created, err := r.EnsureCalendarExists(context.Background(), "tok", "u1", "cal-1")
	require.NoError(t, err)
	assert.Equal(t, "cal-1", id)
	assert.False(t, created)
	assert.Equal(t, 1, api.getCalls)
	assert.Equal(t, 0, api.listCalls)
	assert.Equal(t, 0, api.createCalls)
}

func TestEnsureCalendarExists_StaleCurrentFoundBySummary(t *testing.T) {
	api := &fakeAPI{
		getErr: &googleapi.Error{Code: 404},
		listInfos: []models.CalendarInfo{
			{ID: "c1", Summary: "Personal"},
			{ID: "c2", Summary: "Hebrew Dates"},
		},
	}
	r := NewResolver(api, "Hebrew Dates", logging.NewNop())

	id, created, err := r.EnsureCalendarExists(context.Background(), "tok", "u1", "gone")
	require.NoError(t, err)
	assert.Equal(t, "c2", id)
	assert.False(t, created)
	assert.Equal(t, 0, api.createCalls)
}

func TestEnsureCalendarExists_CreatesWhenMissing(t *testing.T) {
	api := &fakeAPI{
		listInfos: []models.CalendarInfo{{ID: "c1", Summary: "Personal"}},
		createID:  "cal-new",
	}
	r := NewResolver(api, "Hebrew Dates", logging.NewNop())

	id, created, err := r.EnsureCalendarExists(context.Background(), "tok", "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "cal-new", id)
	assert.True(t, created)
	assert.Equal(t, 0, api.getCalls)
	assert.Equal(t, "Hebrew Dates", api.lastCreateName)
}

func TestEnsureCalendarExists_ProbeHardError(t *testing.T) {
	api := &fakeAPI{getErr: &googleapi.Error{Code: 500}}
	r := NewResolver(api, "Hebrew Dates", logging.NewNop())

	_, _, err := r.EnsureCalendarExists(context.Background(), "tok", "u1", "cal-1")
	require.Error(t, err)
	assert.Equal(t, 0, api.listCalls)
}

func TestEnsureCalendarExists_ListError(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("boom")}
	r := NewResolver(api, "Hebrew Dates", logging.NewNop())

	_, _, err := r.EnsureCalendarExists(context.Background(), "tok", "u1", "")
	require.Error(t, err)
}

func TestEnsureCalendarExists_CreateError(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("boom")}
	r := NewResolver(api, "Hebrew Dates", logging.NewNop())

	_, _, err := r.EnsureCalendarExists(context.Background(), "tok", "u1", "")
	require.Error(t, err)
}
