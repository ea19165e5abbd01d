package usecase

import (
	"context"

	"isp-selfcare/internal/domain/ports/repository"
)

var _ StatsUseCase = (*statsUC)(nil)

// Stats is the admin panel overview payload.
type Stats struct {
	Users        int            `json:"users"`
	ActiveByPlan map[string]int `json:"active_by_plan"`
	RevenueMonth int64          `json:"revenue_month_minor"`
	RevenueYear  int64          `json:"revenue_year_minor"`
}

type StatsUseCase interface {
	Overview(ctx context.Context) (*Stats, error)
}

type statsUC struct {
	users    repository.UserRepository
	subs     repository.SubscriptionRepository
	payments repository.PaymentRepository
}

func NewStatsUseCase(users repository.UserRepository, subs repository.SubscriptionRepository, payments repository.PaymentRepository) *statsUC {
	return &statsUC{users: users, subs: subs, payments: payments}
}

func (u *statsUC) Overview(ctx context.Context) (*Stats, error) {
	users, err := u.users.CountUsers(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	byPlan, err := u.subs.CountActiveByPlan(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	month, err := u.payments.SumByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return nil, err
	}
	year, err := u.payments.SumByPeriod(ctx, repository.NoTX, "year")
	if err != nil {
		return nil, err
	}
	return &Stats{Users: users, ActiveByPlan: byPlan, RevenueMonth: month, RevenueYear: year}, nil
}
