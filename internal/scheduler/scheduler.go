// Package scheduler runs the periodic jobs of the weather card: day/night
// re-evaluation, preference sync and the optional automatic refresh.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/weathercard/weathercard/internal/sun"
)

// Controller is the part of the weather card controller the jobs drive.
type Controller interface {
	ResolveMoment(now time.Time) sun.Moment
	RefreshAsync(ctx context.Context)
	SyncRegion(ctx context.Context) (bool, error)
}

// Config holds the job schedules in cron syntax (descriptors such as
// "@every 1m" included). An empty spec disables its job.
type Config struct {
	MomentSpec  string
	RefreshSpec string
	SyncSpec    string
	Controller  Controller
	Logger      zerolog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Scheduler wraps a cron runner evaluated in Taipei time.
type Scheduler struct {
	cron       *cron.Cron
	controller Controller
	logger     zerolog.Logger
	now        func() time.Time

	// base is the context refresh cycles run under, set by Start.
	base context.Context
}

// New registers the jobs. Invalid specs are reported here, not at Start.
func New(cfg Config) (*Scheduler, error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger: logger}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(sun.Taipei),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		controller: cfg.Controller,
		logger:     logger,
		now:        now,
		base:       context.Background(),
	}

	if cfg.MomentSpec != "" {
		if _, err := s.cron.AddFunc(cfg.MomentSpec, s.resolveMoment); err != nil {
			return nil, fmt.Errorf("invalid moment schedule %q: %w", cfg.MomentSpec, err)
		}
	}
	if cfg.RefreshSpec != "" {
		if _, err := s.cron.AddFunc(cfg.RefreshSpec, s.refresh); err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.RefreshSpec, err)
		}
	}

	if cfg.SyncSpec != "" {
		if _, err := s.cron.AddFunc(cfg.SyncSpec, s.syncRegion); err != nil {
			return nil, fmt.Errorf("invalid sync schedule %q: %w", cfg.SyncSpec, err)
		}
	}

	return s, nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start runs the jobs in the background. Refresh cycles run under ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.base = ctx
	s.logger.Info().Int("jobs", s.Jobs()).Msg("starting scheduler")
	s.cron.Start()
}

// Stop halts the schedule and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) resolveMoment() {
	s.controller.ResolveMoment(s.now())
}

func (s *Scheduler) refresh() {
	s.logger.Debug().Msg("scheduled refresh")
	s.controller.RefreshAsync(s.base)
}

func (s *Scheduler) syncRegion() {
	if _, err := s.controller.SyncRegion(s.base); err != nil {
		s.logger.Warn().Err(err).Msg("preference sync failed")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
