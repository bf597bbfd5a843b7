package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionSweeper is the slice of the session store the scheduler needs.
type SessionSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
	PurgeInactive(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler keeps the durable session table tidy: sessions past their
// expiry are swept inactive hourly, long-dead rows are purged daily.
// Validation never depends on the sweep; an expired-but-unswept session
// already fails the expiry check.
type Scheduler struct {
	cron       *cron.Cron
	sessions   SessionSweeper
	purgeAfter time.Duration
	log        zerolog.Logger
}

func NewScheduler(sessions SessionSweeper, purgeAfter time.Duration, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:       c,
		sessions:   sessions,
		purgeAfter: purgeAfter,
		log:        log,
	}
}

func (s *Scheduler) Start() error {
	if s.sessions == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 * * * *", s.sweepExpired); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 30 3 * * *", s.purgeDead); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) sweepExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	swept, err := s.sessions.SweepExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if swept > 0 {
		s.log.Info().Int64("sessions", swept).Msg("expired sessions swept")
	}
}

func (s *Scheduler) purgeDead() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	purged, err := s.sessions.PurgeInactive(ctx, time.Now().Add(-s.purgeAfter))
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("sessions", purged).Msg("dead sessions purged")
	}
}
