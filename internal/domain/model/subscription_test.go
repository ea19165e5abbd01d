//go:build !integration

package model_test

import (
	"errors"
	"testing"
	"time"

	"isp-selfcare/internal/domain"
	"isp-selfcare/internal/domain/model"
)

func TestNewSubscription(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	plan := &model.Plan{ID: "plan-1", BillingCycle: model.BillingCycleMonthly}

	sub, err := model.NewSubscription("sub-1", "user-1", plan, "pay-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sub.IsActive {
		t.Error("new subscription should be active")
	}
	if !sub.EndDate.Equal(now.AddDate(0, 1, 0)) {
		t.Errorf("end date = %v, want one month after start", sub.EndDate)
	}
	if sub.PaymentID != "pay-1" {
		t.Errorf("payment id = %q", sub.PaymentID)
	}

	if _, err := model.NewSubscription("sub-2", "user-1", nil, "pay-1", now); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("nil plan: got %v", err)
	}
}

func TestSubscription_Expired(t *testing.T) {
	now := time.Now()
	sub := &model.Subscription{EndDate: now.Add(48 * time.Hour)}

	if sub.Expired(now) {
		t.Error("should not be expired before end date")
	}
	if !sub.Expired(now.Add(72 * time.Hour)) {
		t.Error("should be expired after end date")
	}
	if d := sub.DaysRemaining(now); d != 2 {
		t.Errorf("days remaining = %d, want 2", d)
	}
	if d := sub.DaysRemaining(now.Add(100 * time.Hour)); d != 0 {
		t.Errorf("days remaining past end = %d, want 0", d)
	}
}
