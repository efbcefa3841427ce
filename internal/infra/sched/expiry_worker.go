package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"bos-storefront/internal/infra/logging"
	"bos-storefront/internal/infra/metrics"
	red "bos-storefront/internal/infra/redis"
)

const expiryLockKey = "lock:sched:expiry"

// Expirer is the slice of LicenseUseCase the sweep needs.
type Expirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// ExpiryWorker periodically flips overdue subscriptions to expired. Access
// checks never depend on it; it only keeps stored status tidy.
type ExpiryWorker struct {
	interval time.Duration
	uc       Expirer
	locker   red.Locker
	log      *zerolog.Logger
}

// NewExpiryWorker: locker may be nil when only one replica runs.
func NewExpiryWorker(interval time.Duration, uc Expirer, locker red.Locker, logger *zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	exprLog := logging.OrNop(logger).With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		uc:       uc,
		locker:   locker,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting expiry worker")
	// Run once on startup, then on every tick
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep returns the number of subscriptions expired, or -1 when skipped.
func (w *ExpiryWorker) sweep(ctx context.Context) int {
	if w.locker != nil {
		token, err := w.locker.TryLock(ctx, expiryLockKey, w.interval/2)
		if errors.Is(err, red.ErrLockNotAcquired) {
			w.log.Debug().Msg("expiry sweep running elsewhere, skipping")
			return -1
		}
		if err != nil {
			w.log.Warn().Err(err).Msg("expiry sweep lock failed, skipping")
			return -1
		}
		defer func() {
			if err := w.locker.Unlock(context.Background(), expiryLockKey, token); err != nil {
				w.log.Warn().Err(err).Msg("expiry sweep unlock failed")
			}
		}()
	}

	start := time.Now()
	n, err := w.uc.ExpireOverdue(ctx)
	metrics.ObserveExpirySweep(time.Since(start).Seconds())
	if err != nil {
		w.log.Error().Err(err).Msg("expiry worker error")
		return 0
	}
	if n > 0 {
		metrics.IncSubscriptionsExpired(n)
		w.log.Info().Int("count", n).Msg("overdue subscriptions expired")
	}
	return n
}
