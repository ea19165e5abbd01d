//go:build !integration

package web_test

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"isp-selfcare/internal/domain"
	"isp-selfcare/internal/domain/model"
	"isp-selfcare/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type MockPlanUC struct {
	ListActiveFunc func(ctx context.Context) ([]*model.Plan, error)
	ListFunc       func(ctx context.Context) ([]*model.Plan, error)
	GetFunc        func(ctx context.Context, id string) (*model.Plan, error)
	CreateFunc     func(ctx context.Context, name, description string, priceMajor float64, cycle, speed, dataLimit string) (*model.Plan, error)
	UpdateFunc     func(ctx context.Context, plan *model.Plan) error
	DeactivateFunc func(ctx context.Context, id string) error
}

var _ usecase.PlanUseCase = (*MockPlanUC)(nil)

func (m *MockPlanUC) ListActive(ctx context.Context) ([]*model.Plan, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *MockPlanUC) List(ctx context.Context) ([]*model.Plan, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockPlanUC) Get(ctx context.Context, id string) (*model.Plan, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockPlanUC) Create(ctx context.Context, name, description string, priceMajor float64, cycle, speed, dataLimit string) (*model.Plan, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name, description, priceMajor, cycle, speed, dataLimit)
	}
	return nil, domain.ErrInvalidArgument
}

func (m *MockPlanUC) Update(ctx context.Context, plan *model.Plan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, plan)
	}
	return nil
}

func (m *MockPlanUC) Deactivate(ctx context.Context, id string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id)
	}
	return nil
}

type MockPaymentUC struct {
	InitiateFunc func(ctx context.Context, userID, planID string) (*model.Payment, string, error)
	VerifyFunc   func(ctx context.Context, reference string) (*model.Payment, error)
	HistoryFunc  func(ctx context.Context, userID string) ([]*model.Payment, error)
}

var _ usecase.PaymentUseCase = (*MockPaymentUC)(nil)

func (m *MockPaymentUC) Initiate(ctx context.Context, userID, planID string) (*model.Payment, string, error) {
	if m.InitiateFunc != nil {
		return m.InitiateFunc(ctx, userID, planID)
	}
	return nil, "", domain.ErrNotFound
}

func (m *MockPaymentUC) Verify(ctx context.Context, reference string) (*model.Payment, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, reference)
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentUC) History(ctx context.Context, userID string) ([]*model.Payment, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, userID)
	}
	return nil, nil
}

type MockSubUC struct {
	ActiveForUserFunc func(ctx context.Context, userID string) (*model.Subscription, error)
	HistoryFunc       func(ctx context.Context, userID string) ([]*model.Subscription, error)
	RenewalsDueFunc   func(ctx context.Context, within time.Duration) ([]*model.Subscription, error)
}

var _ usecase.SubscriptionUseCase = (*MockSubUC)(nil)

func (m *MockSubUC) ActiveForUser(ctx context.Context, userID string) (*model.Subscription, error) {
	if m.ActiveForUserFunc != nil {
		return m.ActiveForUserFunc(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubUC) History(ctx context.Context, userID string) ([]*model.Subscription, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockSubUC) FinishExpired(ctx context.Context) (int, error) { return 0, nil }

func (m *MockSubUC) RenewalsDue(ctx context.Context, within time.Duration) ([]*model.Subscription, error) {
	if m.RenewalsDueFunc != nil {
		return m.RenewalsDueFunc(ctx, within)
	}
	return nil, nil
}

func (m *MockSubUC) CountActiveByPlan(ctx context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

type MockStatsUC struct {
	OverviewFunc func(ctx context.Context) (*usecase.Stats, error)
}

var _ usecase.StatsUseCase = (*MockStatsUC)(nil)

func (m *MockStatsUC) Overview(ctx context.Context) (*usecase.Stats, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx)
	}
	return &usecase.Stats{}, nil
}
