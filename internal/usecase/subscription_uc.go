package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"isp-selfcare/internal/domain/model"
	"isp-selfcare/internal/domain/ports/repository"
)

var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	// ActiveForUser returns the user's current entitlement, ErrNotFound if none.
	ActiveForUser(ctx context.Context, userID string) (*model.Subscription, error)
	// History lists all subscriptions a user ever held.
	History(ctx context.Context, userID string) ([]*model.Subscription, error)
	// FinishExpired deactivates every active subscription whose end date
	// has passed and returns how many were closed.
	FinishExpired(ctx context.Context) (int, error)
	// RenewalsDue lists auto-renew subscriptions ending within the window,
	// for the admin renewal report.
	RenewalsDue(ctx context.Context, within time.Duration) ([]*model.Subscription, error)
	// CountActiveByPlan feeds the admin stats and the active gauge.
	CountActiveByPlan(ctx context.Context) (map[string]int, error)
}

type subscriptionUC struct {
	subs repository.SubscriptionRepository
	log  *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, logger *zerolog.Logger) *subscriptionUC {
	l := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{subs: subs, log: &l}
}

func (u *subscriptionUC) ActiveForUser(ctx context.Context, userID string) (*model.Subscription, error) {
	return u.subs.FindActiveByUser(ctx, repository.NoTX, userID)
}

func (u *subscriptionUC) History(ctx context.Context, userID string) ([]*model.Subscription, error) {
	return u.subs.ListByUser(ctx, repository.NoTX, userID)
}

func (u *subscriptionUC) FinishExpired(ctx context.Context) (int, error) {
	n, err := u.subs.DeactivateExpired(ctx, repository.NoTX, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.log.Info().Int("count", n).Msg("expired subscriptions deactivated")
	}
	return n, nil
}

func (u *subscriptionUC) RenewalsDue(ctx context.Context, within time.Duration) ([]*model.Subscription, error) {
	return u.subs.ListRenewalsDue(ctx, repository.NoTX, time.Now().Add(within))
}

func (u *subscriptionUC) CountActiveByPlan(ctx context.Context) (map[string]int, error) {
	return u.subs.CountActiveByPlan(ctx, repository.NoTX)
}
