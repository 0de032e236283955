// Package scheduler runs seed cycles on a fixed interval inside the
// server process.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/nvoropaev/pulsefeed/internal/seeder"
)

// cycleTimeout bounds one full seed cycle including its upstream calls.
const cycleTimeout = 2 * time.Minute

// Scheduler periodically repopulates the store from the upstream APIs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	seeder    *seeder.Seeder
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a Scheduler running one seed cycle every interval.
func New(s *seeder.Seeder, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		seeder:    s,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// A failed cycle is logged inside the seeder; consecutive cycles are
// independent.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()

		if err := s.seeder.Run(ctx); err != nil {
			s.logger.Error("scheduled seed cycle failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
