package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"isp-selfcare/internal/domain/ports/repository"
	"isp-selfcare/internal/usecase"
)

const reconcileBatchSize = 100

// PaymentReconciler re-verifies payments that stayed pending, usually
// because the customer paid but never landed on the callback URL. Verify
// is idempotent, so re-driving a reference that a callback already
// finalized is harmless.
type PaymentReconciler struct {
	interval   time.Duration
	staleAfter time.Duration
	payments   repository.PaymentRepository
	paymentUC  usecase.PaymentUseCase
	log        *zerolog.Logger
}

func NewPaymentReconciler(
	interval, staleAfter time.Duration,
	payments repository.PaymentRepository,
	paymentUC usecase.PaymentUseCase,
	logger *zerolog.Logger,
) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	l := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{
		interval:   interval,
		staleAfter: staleAfter,
		payments:   payments,
		paymentUC:  paymentUC,
		log:        &l,
	}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("stale_after", w.staleAfter).Msg("starting payment reconciler")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping payment reconciler")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *PaymentReconciler) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	stale, err := w.payments.ListPendingOlderThan(ctx, repository.NoTX, cutoff, reconcileBatchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("list stale pending payments")
		return
	}
	for _, p := range stale {
		if ctx.Err() != nil {
			return
		}
		res, err := w.paymentUC.Verify(ctx, p.Reference)
		if err != nil {
			w.log.Warn().Err(err).Str("reference", p.Reference).Msg("reconcile verify error")
			continue
		}
		w.log.Info().Str("reference", p.Reference).Str("status", string(res.Status)).Msg("stale payment reconciled")
	}
}
