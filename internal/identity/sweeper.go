package identity

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BrawlerYura/BlogAPIBack/internal/store"
)

// Sweeper periodically deletes revoked tokens that are past their expiry.
type Sweeper struct {
	store    *store.Store
	interval time.Duration
	log      logrus.FieldLogger
}

func NewSweeper(s *store.Store, interval time.Duration, log logrus.FieldLogger) *Sweeper {
	return &Sweeper{store: s, interval: interval, log: log}
}

// Run sweeps once immediately and then every interval until ctx is cancelled.
// A failed sweep is logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if n, err := s.Sweep(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.WithError(err).Error("revoked token sweep failed")
		} else if n > 0 {
			s.log.WithField("removed", n).Info("revoked tokens swept")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredTokens(ctx, time.Now().UTC())
}
