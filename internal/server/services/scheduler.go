package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hebsync/hebsync/internal/common"
	"github.com/hebsync/hebsync/internal/hebcal"
	"github.com/hebsync/hebsync/internal/logging"
	sc "github.com/hebsync/hebsync/internal/server/config"
	"github.com/hebsync/hebsync/internal/server/models"
	"github.com/hebsync/hebsync/internal/server/repositories/repomanager"
	"github.com/robfig/cron/v3"
)

// SweepReport aggregates one pass over all eligible users.
type SweepReport struct {
	UsersProcessed int
	UsersSkipped   int
	EventsSynced   int
	EventsFailed   int
}

// SchedulerStatus is a snapshot of the process-lifetime counters.
type SchedulerStatus struct {
	Running     bool
	Sweeps      int64
	LastRun     time.Time
	ErrorsTotal int64
}

// Scheduler drives periodic catch-up sweeps: one immediately on start, then
// one per configured interval. An overlapping sweep is skipped, not queued.
type Scheduler struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	credentials CredentialProvider
	syncer      Syncer
	log         logging.Logger

	cron    *cron.Cron
	running atomic.Bool
	busy    atomic.Bool

	now func() time.Time

	mu          sync.Mutex
	sweeps      int64
	lastRun     time.Time
	errorsTotal int64
}

func NewScheduler(db *sql.DB, rm repomanager.RepositoryManager, config *sc.Config,
	credentials CredentialProvider, syncer Syncer, log logging.Logger) *Scheduler {
	return &Scheduler{
		db:          db,
		repomanager: rm,
		config:      config,
		credentials: credentials,
		syncer:      syncer,
		log:         log,
		now:         time.Now,
	}
}

// Start arms the timer and fires the first sweep. It is a no-op when sync
// is disabled by config or the scheduler is already running.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		s.log.Info(ctx, "sync disabled, scheduler not started")
		return nil
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}

	runSweep := func() {
		if _, err := s.Sweep(ctx); err != nil && !errors.Is(err, common.ErrSweepInProgress) {
			s.log.Error(ctx, "sweep failed", "error", err)
		}
	}

	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.config.SyncInterval)
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(runSweep))
	if _, err := s.cron.AddJob(spec, job); err != nil {
		s.running.Store(false)
		return fmt.Errorf("schedule sweep: %w", err)
	}
	s.cron.Start()

	go runSweep()

	s.log.Info(ctx, "scheduler started", "interval", s.config.SyncInterval.String())
	return nil
}

// Stop cancels the timer and waits for an in-flight sweep to settle.
func (s *Scheduler) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.log.Info(context.Background(), "scheduler stopped")
}

// Status reports the process-lifetime sweep counters.
func (s *Scheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerStatus{
		Running:     s.running.Load(),
		Sweeps:      s.sweeps,
		LastRun:     s.lastRun,
		ErrorsTotal: s.errorsTotal,
	}
}

// Sweep runs one full pass: eligible users in batches of SyncBatchSize,
// each batch settled before the next starts. A concurrent call returns
// common.ErrSweepInProgress.
func (s *Scheduler) Sweep(ctx context.Context) (*SweepReport, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, common.ErrSweepInProgress
	}
	defer s.busy.Store(false)

	started := s.now()
	currentYear := hebcal.YearOf(started)

	eligible, err := s.repomanager.Users(s.db).ListEligible(ctx)
	if err != nil {
		s.recordSweep(started, 1)
		return nil, fmt.Errorf("list eligible users: %w", err)
	}
	s.log.Info(ctx, "starting sweep", "eligible_users", len(eligible), "hebrew_year", currentYear)

	report := &SweepReport{}
	width := s.config.SyncBatchSize
	if width < 1 {
		width = 1
	}

	for start := 0; start < len(eligible); start += width {
		end := start + width
		if end > len(eligible) {
			end = len(eligible)
		}
		batch := eligible[start:end]

		results := make([]userSweepResult, len(batch))
		var wg sync.WaitGroup
		for i, user := range batch {
			wg.Add(1)
			go func(i int, user *models.UserSyncContext) {
				defer wg.Done()
				results[i] = s.sweepUser(ctx, user, currentYear)
			}(i, user)
		}
		wg.Wait()

		for _, r := range results {
			if r.skipped {
				report.UsersSkipped++
				continue
			}
			report.UsersProcessed++
			report.EventsSynced += r.eventsSynced
			report.EventsFailed += r.eventsFailed
		}

		if end < len(eligible) && s.config.SyncBatchPause > 0 {
			select {
			case <-ctx.Done():
				s.recordSweep(started, int64(report.UsersSkipped+report.EventsFailed))
				return report, ctx.Err()
			case <-time.After(s.config.SyncBatchPause):
			}
		}
	}

	s.recordSweep(started, int64(report.UsersSkipped+report.EventsFailed))
	s.log.Info(ctx, "sweep finished",
		"users", report.UsersProcessed, "skipped", report.UsersSkipped,
		"events_synced", report.EventsSynced, "events_failed", report.EventsFailed)
	return report, nil
}

type userSweepResult struct {
	skipped      bool
	eventsSynced int
	eventsFailed int
}

// sweepUser catches up every event of one user. Failures stay inside the
// user: a skipped or failing user never aborts the sweep.
func (s *Scheduler) sweepUser(ctx context.Context, user *models.UserSyncContext, currentYear int) userSweepResult {
	token, err := s.credentials.GetValidAccessToken(ctx, user.UserID)
	if err != nil {
		s.log.Warn(ctx, "skipping user, no usable credential", "user_id", user.UserID, "error", err)
		return userSweepResult{skipped: true}
	}

	events, err := s.repomanager.Events(s.db).ListByUser(ctx, user.UserID)
	if err != nil {
		s.log.Warn(ctx, "skipping user, cannot list events", "user_id", user.UserID, "error", err)
		return userSweepResult{skipped: true}
	}

	var result userSweepResult
	for _, event := range events {
		outcome, err := s.syncer.CatchUp(ctx, user, token, event, currentYear)
		if err != nil {
			result.eventsFailed++
			s.log.Warn(ctx, "event catch-up failed", "event_id", event.ID, "error", err)
			continue
		}
		if len(outcome.YearErrors) > 0 {
			result.eventsFailed++
		} else if len(outcome.SyncedYears) > 0 {
			result.eventsSynced++
		}
	}
	return result
}

func (s *Scheduler) recordSweep(started time.Time, errs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	s.lastRun = started
	s.errorsTotal += errs
}
