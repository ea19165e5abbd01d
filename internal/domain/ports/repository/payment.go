package repository

import (
	"context"
	"time"

	"isp-selfcare/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, qx Tx, p *model.Payment) error
	FindByID(ctx context.Context, qx Tx, id string) (*model.Payment, error)
	FindByReference(ctx context.Context, qx Tx, reference string) (*model.Payment, error)
	ListByUser(ctx context.Context, qx Tx, userID string) ([]*model.Payment, error)
	// UpdateStatusIfPending atomically moves a payment out of 'pending'.
	// Returns false when the row was already terminal; the caller must then
	// treat the stored state as authoritative and perform no side effects.
	UpdateStatusIfPending(ctx context.Context, qx Tx, id string, status model.PaymentStatus, externalRef *string, paidAt *time.Time) (bool, error)
	// ListPendingOlderThan feeds the reconciler with stale pending attempts.
	ListPendingOlderThan(ctx context.Context, qx Tx, olderThan time.Time, limit int) ([]*model.Payment, error)
	SumByPeriod(ctx context.Context, qx Tx, period string) (int64, error)
}
