package sla

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs the escalation sweep on a fixed wall-clock interval. A tick
// is skipped while the previous sweep is still running, so two sweeps never
// evaluate the same complaint concurrently.
type Scheduler struct {
	Engine   *Engine
	Interval time.Duration
	Logger   zerolog.Logger

	cron *cron.Cron
}

func NewScheduler(engine *Engine, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		Engine:   engine,
		Interval: interval,
		Logger:   logger,
	}
}

// Start runs one sweep immediately, then schedules the recurring sweep.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.Engine.Sweep(ctx); err != nil {
		s.Logger.Error().Err(err).Msg("initial SLA sweep failed")
	}

	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	spec := fmt.Sprintf("@every %s", s.Interval)
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.Engine.Sweep(context.Background()); err != nil {
			s.Logger.Error().Err(err).Msg("SLA sweep failed")
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.Logger.Info().Dur("interval", s.Interval).Msg("SLA sweep scheduler started")
	return nil
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.Logger.Info().Msg("SLA sweep scheduler stopped")
}
