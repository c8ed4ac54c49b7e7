// Package scheduler drives periodic poll cycles.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/eireweather/met-warnings-service/internal/observability"
)

// Refresher is the single operation the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs the poll cycle on a fixed interval. Jobs run in
// singleton mode: a new cycle is never admitted while the previous fetch
// is still outstanding, so a slow upstream cannot pile up requests.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	refresher    Refresher
	interval     time.Duration
	cycleTimeout time.Duration
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// New creates a Scheduler. cycleTimeout bounds one whole cycle including
// the fetch, so a hung poll cannot block subsequent ones forever.
func New(refresher Refresher, interval, cycleTimeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		refresher:    refresher,
		interval:     interval,
		cycleTimeout: cycleTimeout,
		logger:       logger,
		metrics:      metrics,
	}
}

// Start schedules the poll job and begins running it, with an immediate
// first cycle so sensor state is available right after startup.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).StartImmediately().SingletonMode().Do(s.runCycle)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.metrics.PollerRunning.Set(1)
	s.logger.Info("poll scheduler started", "interval", s.interval)
	return nil
}

// Stop halts the scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.metrics.PollerRunning.Set(0)
	s.logger.Info("poll scheduler stopped")
}

func (s *Scheduler) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cycleTimeout)
	defer cancel()

	if err := s.refresher.Refresh(ctx); err != nil {
		// Fail-static: the refresher left previous state in place, so
		// this is a logged cycle failure, not a service failure.
		s.logger.Error("poll cycle failed", "error", err)
	}
}
