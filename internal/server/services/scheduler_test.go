package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hebsync/hebsync/internal/common"
	"github.com/hebsync/hebsync/internal/logging"
	sc "github.com/hebsync/hebsync/internal/server/config"
	"github.com/hebsync/hebsync/internal/server/models"
)

// -------- test fakes --------

type fakeCredentials struct {
	mu    sync.Mutex
	errs  map[string]error
	calls int
}

func (f *fakeCredentials) GetValidAccessToken(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errs[userID]; err != nil {
		return "", err
	}
	return "tok", nil
}

type syncCall struct {
	userID     string
	calendarID string
	token      string
	eventID    string
	years      []int
	year       int
}

type fakeSyncer struct {
	mu        sync.Mutex
	catchUps  []syncCall
	syncs     []syncCall
	populates []syncCall

	// outcomeFn overrides the default "synced the current year" result.
	outcomeFn func(user *models.UserSyncContext, event *models.RecurringEvent) (*models.SyncOutcome, error)
	delay     time.Duration

	inFlight    int
	maxInFlight int
}

func (f *fakeSyncer) result(user *models.UserSyncContext, event *models.RecurringEvent, year int) (*models.SyncOutcome, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	fn := f.outcomeFn
	f.mu.Unlock()
	if fn != nil {
		return fn(user, event)
	}
	return &models.SyncOutcome{EventID: event.ID, SyncedYears: []int{year}}, nil
}

func (f *fakeSyncer) CatchUp(_ context.Context, user *models.UserSyncContext, token string,
	event *models.RecurringEvent, currentYear int) (*models.SyncOutcome, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.catchUps = append(f.catchUps, syncCall{
		userID: user.UserID, calendarID: user.CalendarID,
		token: token, eventID: event.ID, year: currentYear,
	})
	f.mu.Unlock()

	out, err := f.result(user, event, currentYear)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return out, err
}

func (f *fakeSyncer) SyncYears(_ context.Context, user *models.UserSyncContext, token string,
	event *models.RecurringEvent, years []int) (*models.SyncOutcome, error) {
	f.mu.Lock()
	f.syncs = append(f.syncs, syncCall{
		userID: user.UserID, calendarID: user.CalendarID,
		token: token, eventID: event.ID, years: years,
	})
	f.mu.Unlock()
	return f.result(user, event, 0)
}

func (f *fakeSyncer) InitialPopulate(_ context.Context, user *models.UserSyncContext, token string,
	event *models.RecurringEvent, currentYear int) (*models.SyncOutcome, error) {
	f.mu.Lock()
	f.populates = append(f.populates, syncCall{
		userID: user.UserID, calendarID: user.CalendarID,
		token: token, eventID: event.ID, year: currentYear,
	})
	f.mu.Unlock()
	return f.result(user, event, currentYear)
}

// -------- helpers --------

// testNow maps to Hebrew year 5786.
var testNow = time.Date(2025, 11, 21, 8, 0, 0, 0, time.UTC)

func schedulerConfig() *sc.Config {
	return &sc.Config{
		SyncEnabled:    true,
		SyncInterval:   time.Hour,
		SyncBatchSize:  2,
		SyncBatchPause: time.Millisecond,
	}
}

func newTestScheduler(m *fakeRepoManager, creds *fakeCredentials, syncer *fakeSyncer, cfg *sc.Config) *Scheduler {
	return &Scheduler{
		repomanager: m,
		config:      cfg,
		credentials: creds,
		syncer:      syncer,
		log:         logging.NewNop(),
		now:         func() time.Time { return testNow },
	}
}

func eligibleUsers(n int) []*models.UserSyncContext {
	out := make([]*models.UserSyncContext, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &models.UserSyncContext{
			UserID:     string(rune('a' + i)),
			CalendarID: "cal-" + string(rune('a'+i)),
		})
	}
	return out
}

// -------- tests --------

func TestSweep_BatchesSettleFully(t *testing.T) {
	m := newFakeRepoManager()
	m.u.eligible = eligibleUsers(5)
	m.e.byUser = map[string][]*models.RecurringEvent{}
	for _, u := range m.u.eligible {
		m.e.byUser[u.UserID] = []*models.RecurringEvent{{ID: "ev-" + u.UserID, UserID: u.UserID}}
	}
	syncer := &fakeSyncer{delay: 10 * time.Millisecond}
	s := newTestScheduler(m, &fakeCredentials{}, syncer, schedulerConfig())

	report, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}

	if report.UsersProcessed != 5 || report.UsersSkipped != 0 {
		t.Fatalf("users: %+v", report)
	}
	if report.EventsSynced != 5 || report.EventsFailed != 0 {
		t.Fatalf("events: %+v", report)
	}
	if len(syncer.catchUps) != 5 {
		t.Fatalf("catch-up calls: %d", len(syncer.catchUps))
	}
	if syncer.maxInFlight > 2 {
		t.Fatalf("batch width exceeded: %d concurrent catch-ups", syncer.maxInFlight)
	}
	for _, call := range syncer.catchUps {
		if call.token != "tok" || call.year != 5786 {
			t.Fatalf("unexpected catch-up call: %+v", call)
		}
	}

	status := s.Status()
	if status.Sweeps != 1 || !status.LastRun.Equal(testNow) || status.Running {
		t.Fatalf("status: %+v", status)
	}
}

func TestSweep_SkipsUserWithoutCredential(t *testing.T) {
	m := newFakeRepoManager()
	m.u.eligible = eligibleUsers(2)
	m.e.byUser = map[string][]*models.RecurringEvent{
		"b": {{ID: "ev-b", UserID: "b"}},
	}
	creds := &fakeCredentials{errs: map[string]error{"a": common.ErrCredentialUnavailable}}
	syncer := &fakeSyncer{}
	s := newTestScheduler(m, creds, syncer, schedulerConfig())

	report, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if report.UsersProcessed != 1 || report.UsersSkipped != 1 || report.EventsSynced != 1 {
		t.Fatalf("report: %+v", report)
	}
	if len(syncer.catchUps) != 1 || syncer.catchUps[0].eventID != "ev-b" {
		t.Fatalf("catch-up calls: %+v", syncer.catchUps)
	}
}

func TestSweep_ListEventsFailureSkipsUser(t *testing.T) {
	m := newFakeRepoManager()
	m.u.eligible = eligibleUsers(1)
	m.e.listErr = errors.New("db down")
	syncer := &fakeSyncer{}
	s := newTestScheduler(m, &fakeCredentials{}, syncer, schedulerConfig())

	report, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if report.UsersProcessed != 0 || report.UsersSkipped != 1 {
		t.Fatalf("report: %+v", report)
	}
	if len(syncer.catchUps) != 0 {
		t.Fatalf("catch-up calls: %+v", syncer.catchUps)
	}
}

func TestSweep_CountsEventOutcomes(t *testing.T) {
	m := newFakeRepoManager()
	m.u.eligible = eligibleUsers(1)
	m.e.byUser = map[string][]*models.RecurringEvent{
		"a": {
			{ID: "ev-ok", UserID: "a"},
			{ID: "ev-err", UserID: "a"},
			{ID: "ev-partial", UserID: "a"},
			{ID: "ev-uptodate", UserID: "a"},
		},
	}
	syncer := &fakeSyncer{
		outcomeFn: func(_ *models.UserSyncContext, event *models.RecurringEvent) (*models.SyncOutcome, error) {
			switch event.ID {
			case "ev-err":
				return nil, errors.New("boom")
			case "ev-partial":
				return &models.SyncOutcome{
					EventID:     event.ID,
					SyncedYears: []int{5785},
					YearErrors:  []models.YearError{{Year: 5786, Err: errors.New("quota")}},
				}, nil
			case "ev-uptodate":
				return &models.SyncOutcome{EventID: event.ID}, nil
			default:
				return &models.SyncOutcome{EventID: event.ID, SyncedYears: []int{5786}}, nil
			}
		},
	}
	s := newTestScheduler(m, &fakeCredentials{}, syncer, schedulerConfig())

	report, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if report.UsersProcessed != 1 {
		t.Fatalf("users processed: %d", report.UsersProcessed)
	}
	if report.EventsSynced != 1 || report.EventsFailed != 2 {
		t.Fatalf("event counts: %+v", report)
	}
}

func TestSweep_OverlappingRunSkips(t *testing.T) {
	m := newFakeRepoManager()
	s := newTestScheduler(m, &fakeCredentials{}, &fakeSyncer{}, schedulerConfig())

	s.busy.Store(true)
	_, err := s.Sweep(context.Background())
	if !errors.Is(err, common.ErrSweepInProgress) {
		t.Fatalf("expected ErrSweepInProgress, got %v", err)
	}
	s.busy.Store(false)

	if _, err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep after release: %v", err)
	}
}

func TestSweep_ListEligibleFailure(t *testing.T) {
	m := newFakeRepoManager()
	m.u.eligibleErr = errors.New("db down")
	s := newTestScheduler(m, &fakeCredentials{}, &fakeSyncer{}, schedulerConfig())

	_, err := s.Sweep(context.Background())
	if err == nil || !errors.Is(err, m.u.eligibleErr) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
	status := s.Status()
	if status.Sweeps != 1 || status.ErrorsTotal != 1 {
		t.Fatalf("status: %+v", status)
	}
}

func TestSweep_ContextCancelledBetweenBatches(t *testing.T) {
	m := newFakeRepoManager()
	m.u.eligible = eligibleUsers(4)
	m.e.byUser = map[string][]*models.RecurringEvent{}
	for _, u := range m.u.eligible {
		m.e.byUser[u.UserID] = []*models.RecurringEvent{{ID: "ev-" + u.UserID, UserID: u.UserID}}
	}
	cfg := schedulerConfig()
	cfg.SyncBatchPause = 50 * time.Millisecond
	syncer := &fakeSyncer{}
	s := newTestScheduler(m, &fakeCredentials{}, syncer, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := s.Sweep(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	// The first batch had already settled when the pause observed the
	// cancellation.
	if report == nil || report.UsersProcessed != 2 {
		t.Fatalf("report: %+v", report)
	}
	if len(syncer.catchUps) != 2 {
		t.Fatalf("catch-up calls: %d", len(syncer.catchUps))
	}
}

func TestScheduler_StartDisabled(t *testing.T) {
	cfg := schedulerConfig()
	cfg.SyncEnabled = false
	syncer := &fakeSyncer{}
	s := newTestScheduler(newFakeRepoManager(), &fakeCredentials{}, syncer, cfg)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if s.Status().Running {
		t.Fatal("disabled scheduler reports running")
	}
	s.Stop()
	if len(syncer.catchUps) != 0 {
		t.Fatalf("catch-up calls: %d", len(syncer.catchUps))
	}
}

func TestScheduler_StartRunsImmediateSweepAndStops(t *testing.T) {
	m := newFakeRepoManager()
	s := newTestScheduler(m, &fakeCredentials{}, &fakeSyncer{}, schedulerConfig())

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if !s.Status().Running {
		t.Fatal("scheduler not running after Start")
	}

	deadline := time.After(time.Second)
	for s.Status().Sweeps == 0 {
		select {
		case <-deadline:
			t.Fatal("immediate sweep never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Stop()
	if s.Status().Running {
		t.Fatal("scheduler still running after Stop")
	}
	s.Stop() // second stop is a no-op
}
