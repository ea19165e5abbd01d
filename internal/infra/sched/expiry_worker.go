package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"isp-selfcare/internal/infra/metrics"
	"isp-selfcare/internal/usecase"
)

// ExpiryWorker periodically deactivates subscriptions whose end date has
// elapsed. Entitlement checks read is_active, so without this sweep a
// lapsed subscription would keep granting service until the next
// successful payment replaced it.
type ExpiryWorker struct {
	interval time.Duration
	subUC    usecase.SubscriptionUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subUC usecase.SubscriptionUseCase, logger *zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	l := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{interval: interval, subUC: subUC, log: &l}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.subUC.FinishExpired(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry sweep error")
				continue
			}
			if n > 0 {
				metrics.IncSubscriptionsExpired(n)
			}
			if counts, err := w.subUC.CountActiveByPlan(ctx); err == nil {
				metrics.SetSubscriptionsActive(counts)
			}
		}
	}
}
