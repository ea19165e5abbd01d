package model

import (
	"time"

	"isp-selfcare/internal/domain"
)

// Subscription is a user's service entitlement for one billing period.
// At most one row per user may have IsActive=true at any time; creation
// happens only as a side effect of a verified successful payment, inside
// the same transaction that deactivates the previous active row.
type Subscription struct {
	ID        string // UUID
	UserID    string // UUID
	PlanID    string // UUID
	PaymentID string // the payment that granted this period
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
	AutoRenew bool
	CreatedAt time.Time
}

// NewSubscription builds an active subscription starting at now and
// ending one billing cycle later.
func NewSubscription(id, userID string, plan *Plan, paymentID string, now time.Time) (*Subscription, error) {
	if id == "" || userID == "" || plan == nil || paymentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Subscription{
		ID:        id,
		UserID:    userID,
		PlanID:    plan.ID,
		PaymentID: paymentID,
		StartDate: now,
		EndDate:   plan.BillingCycle.NextRenewal(now),
		IsActive:  true,
		AutoRenew: false,
		CreatedAt: now,
	}, nil
}

// DaysRemaining returns whole days until EndDate, zero if already past.
func (s *Subscription) DaysRemaining(now time.Time) int {
	if s.EndDate.Before(now) {
		return 0
	}
	return int(s.EndDate.Sub(now).Hours() / 24)
}

// Expired reports whether the entitlement lapsed by EndDate elapsing.
func (s *Subscription) Expired(now time.Time) bool {
	return now.After(s.EndDate)
}
