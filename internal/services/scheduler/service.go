// Package scheduler drives periodic conversion runs on a cron schedule.
package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// RunFunc executes one conversion run.
type RunFunc func(ctx context.Context) error

// Service wraps a cron runner around the conversion pipeline. Runs never
// overlap: a tick that fires while a run is in progress is skipped.
type Service struct {
	cron     *cron.Cron
	schedule string
	run      RunFunc
	logger   arbor.ILogger
	mu       sync.Mutex
	running  bool
}

// NewService builds a scheduler for the given 5-field cron schedule. The
// schedule is validated by Start.
func NewService(schedule string, run RunFunc, logger arbor.ILogger) *Service {
	return &Service{
		cron:     cron.New(),
		schedule: schedule,
		run:      run,
		logger:   logger,
	}
}

// Start registers the schedule and begins firing. Returns an error for an
// unparseable schedule.
func (s *Service) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() { s.tick(ctx) })
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Msg("Scheduler started")
	return nil
}

// Stop halts the cron runner and waits for an in-flight run to finish.
func (s *Service) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Service) tick(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous scheduled run still in progress; skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := s.run(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled conversion run failed")
	}
}
