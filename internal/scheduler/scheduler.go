package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// Scheduler runs a job on a fixed interval. A run that fails is logged and
// the next tick proceeds normally.
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	timeout   time.Duration
	job       Job
	logger    *zap.Logger

	// parent is the context runs derive from; cancelling it cancels the
	// run in flight.
	parent context.Context
}

// New creates a new Scheduler. timeout bounds each run; zero means the
// interval.
func New(interval, timeout time.Duration, job Job, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = interval
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		interval:  interval,
		timeout:   timeout,
		job:       job,
		logger:    logger,
		parent:    context.Background(),
	}
}

// Start schedules the job, runs it once immediately and returns. Each run's
// context is derived from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.parent = ctx

	interval := s.interval
	if interval <= 0 {
		interval = time.Hour
	}

	_, err := s.scheduler.Every(interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", zap.Duration("interval", interval))
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(s.parent, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled run failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return
	}
	s.logger.Debug("scheduled run completed", zap.Duration("took", time.Since(start)))
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
