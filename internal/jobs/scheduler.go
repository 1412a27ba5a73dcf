// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Pinger is the part of the project store the probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler periodically probes the store and logs state transitions,
// so a dropped backend shows up in the logs before the next request fails.
type Scheduler struct {
	store   Pinger
	log     zerolog.Logger
	timeout time.Duration
	c       *cron.Cron

	healthy bool
}

// NewScheduler registers the store probe under spec (six fields, seconds first).
func NewScheduler(spec string, store Pinger, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		store:   store,
		log:     log.With().Str("job", "store_probe").Logger(),
		timeout: 3 * time.Second,
		c:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		healthy: true,
	}

	if _, err := s.c.AddFunc(spec, s.probe); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info().Msg("cron scheduler started")
	s.c.Start()
}

// Stop halts the scheduler and waits for a running probe to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

func (s *Scheduler) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.store.Ping(ctx)
	switch {
	case err != nil && s.healthy:
		s.log.Error().Err(err).Msg("store unreachable")
	case err != nil:
		s.log.Debug().Err(err).Msg("store still unreachable")
	case !s.healthy:
		s.log.Info().Msg("store recovered")
	}
	s.healthy = err == nil
}
