package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SweepFunc triggers one pass over undelivered outbox messages.
type SweepFunc func(ctx context.Context) error

type Scheduler struct {
	cron     *cron.Cron
	schedule string
	sweep    SweepFunc
	timeout  time.Duration
	log      zerolog.Logger
}

// NewScheduler runs sweep on schedule, a cron spec with seconds or a
// descriptor such as "@every 1m". An empty schedule disables the job.
func NewScheduler(schedule string, sweep SweepFunc, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	return &Scheduler{
		cron:     c,
		schedule: schedule,
		sweep:    sweep,
		timeout:  30 * time.Second,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.schedule == "" || s.sweep == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runSweep); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("outbox sweep scheduled")
	return nil
}

// Stop halts the schedule and waits for a running sweep until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("outbox sweep still running at shutdown")
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.sweep(ctx); err != nil {
		s.log.Error().Err(err).Msg("outbox sweep failed")
	}
}
