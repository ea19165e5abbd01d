package model

import (
	"time"

	"isp-selfcare/internal/domain"
)

type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleYearly    BillingCycle = "yearly"
)

// ParseBillingCycle validates a raw cycle string.
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(s) {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleYearly:
		return BillingCycle(s), nil
	}
	return "", domain.ErrInvalidArgument
}

// NextRenewal returns the end of a billing period that starts at from.
// Calendar arithmetic, not fixed day counts: a monthly plan bought on
// Jan 31 renews on the civil month boundary the same way the billing
// engine computes proration.
func (c BillingCycle) NextRenewal(from time.Time) time.Time {
	switch c {
	case BillingCycleQuarterly:
		return from.AddDate(0, 3, 0)
	case BillingCycleYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// Plan is purchasable reference data. It is read-only from the payment
// flow's perspective; admins mutate it through the plan use case.
type Plan struct {
	ID           string
	Name         string
	Description  string
	PriceMinor   int64 // minor units
	BillingCycle BillingCycle
	Speed        string // advertised bandwidth, e.g. "50Mbps"
	DataLimit    string // empty means unlimited
	IsActive     bool
	CreatedAt    time.Time
}

// NewPlan validates and constructs a plan.
func NewPlan(id, name, description string, priceMinor int64, cycle BillingCycle, speed, dataLimit string) (*Plan, error) {
	if id == "" || name == "" || priceMinor <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := ParseBillingCycle(string(cycle)); err != nil {
		return nil, err
	}
	return &Plan{
		ID:           id,
		Name:         name,
		Description:  description,
		PriceMinor:   priceMinor,
		BillingCycle: cycle,
		Speed:        speed,
		DataLimit:    dataLimit,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}, nil
}
