package repository

import (
	"context"
	"time"

	"isp-selfcare/internal/domain/model"
)

// SubscriptionRepository is the port for user subscriptions.
type SubscriptionRepository interface {
	Save(ctx context.Context, qx Tx, s *model.Subscription) error
	FindActiveByUser(ctx context.Context, qx Tx, userID string) (*model.Subscription, error)
	ListByUser(ctx context.Context, qx Tx, userID string) ([]*model.Subscription, error)
	// DeactivateActiveByUser clears every active row for a user and returns
	// how many were cleared. Paired with Save inside one transaction it
	// upholds the at-most-one-active invariant.
	DeactivateActiveByUser(ctx context.Context, qx Tx, userID string) (int, error)
	// DeactivateExpired clears active rows whose end date is behind asOf.
	DeactivateExpired(ctx context.Context, qx Tx, asOf time.Time) (int, error)
	// LockUser takes a per-user mutual-exclusion lock for the duration of
	// the surrounding transaction. No-op outside a transaction.
	LockUser(ctx context.Context, qx Tx, userID string) error
	// ListRenewalsDue returns active auto-renew rows ending before the
	// given instant, soonest first.
	ListRenewalsDue(ctx context.Context, qx Tx, before time.Time) ([]*model.Subscription, error)

	// --- Statistics read-only methods ---
	CountActiveByPlan(ctx context.Context, qx Tx) (map[string]int, error)
}
