package usecase

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically removes expired handoff tokens. Redemption never depends on it;
// it only bounds storage.
type Sweeper struct {
	store     TokenStore
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewSweeper creates a Sweeper that every interval deletes tokens expired for longer
// than retention.
func NewSweeper(store TokenStore, interval, retention time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:     store,
		interval:  interval,
		retention: retention,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SweepOnce runs one sweep with the configured retention and returns the number of
// tokens deleted (or, with dryRun, that would be deleted).
func (s *Sweeper) SweepOnce(ctx context.Context, dryRun bool) (int64, error) {
	return s.store.Sweep(ctx, s.now().Add(-s.retention), dryRun)
}

// Run sweeps every interval until ctx is cancelled. Failed sweeps are logged and retried
// on the next tick. Run returns nil on cancellation.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("handoff token sweeper disabled")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("handoff token sweeper started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("handoff token sweeper stopped")
			return nil
		case <-ticker.C:
			count, err := s.SweepOnce(ctx, false)
			if err != nil {
				s.logger.Error("handoff token sweep failed", slog.Any("error", err))
				continue
			}
			if count > 0 {
				s.logger.Info("handoff tokens swept", slog.Int64("count", count))
			}
		}
	}
}
