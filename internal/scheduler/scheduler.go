package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is one scheduled sync run
type Job func(ctx context.Context) error

// Scheduler runs a job on a cron schedule. A run that is still going when
// the next tick fires makes that tick a no-op.
type Scheduler struct {
	spec    string
	job     Job
	cron    *cron.Cron
	entryID cron.EntryID
	cancel  context.CancelFunc
	mu      sync.Mutex
	runs    int
}

// NewScheduler creates a new scheduler instance
func NewScheduler(spec string, job Job) *Scheduler {
	return &Scheduler{
		spec: spec,
		job:  job,
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.PrintfLogger(&log.Logger)),
			cron.SkipIfStillRunning(cron.PrintfLogger(&log.Logger)),
		)),
	}
}

// Start registers the job and starts the cron loop. Runs receive a context
// derived from ctx that is cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	runCtx, cancel := context.WithCancel(ctx)

	id, err := s.cron.AddFunc(s.spec, func() { s.run(runCtx) })
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule sync %q: %w", s.spec, err)
	}
	s.entryID = id
	s.cancel = cancel

	s.cron.Start()
	log.Info().
		Str("schedule", s.spec).
		Time("next_run", s.Next()).
		Msg("Sync scheduled")

	return nil
}

// Stop stops the scheduler and waits for a running job to return
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()

	log.Info().Msg("Scheduler stopped")
}

// Next returns the next scheduled run, or the zero time before Start
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Runs returns how many runs have finished
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) run(ctx context.Context) {
	start := time.Now()
	log.Info().Msg("Running scheduled sync...")

	if err := s.job(ctx); err != nil {
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("Scheduled sync failed")
	} else {
		log.Info().Dur("duration", time.Since(start)).Msg("Scheduled sync completed")
	}

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()
}
