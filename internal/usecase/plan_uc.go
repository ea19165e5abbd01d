package usecase

import (
	"context"

	"github.com/google/uuid"

	"isp-selfcare/internal/domain"
	"isp-selfcare/internal/domain/model"
	"isp-selfcare/internal/domain/ports/repository"
)

var _ PlanUseCase = (*planUC)(nil)

type PlanUseCase interface {
	// ListActive returns the plans customers may subscribe to.
	ListActive(ctx context.Context) ([]*model.Plan, error)
	// List returns every plan including deactivated ones (admin).
	List(ctx context.Context) ([]*model.Plan, error)
	Get(ctx context.Context, id string) (*model.Plan, error)
	// Create takes the price in major units and stores minor units.
	Create(ctx context.Context, name, description string, priceMajor float64, cycle, speed, dataLimit string) (*model.Plan, error)
	Update(ctx context.Context, plan *model.Plan) error
	// Deactivate hides a plan from customers without breaking the audit
	// trail of payments that point at it.
	Deactivate(ctx context.Context, id string) error
}

type planUC struct {
	plans repository.PlanRepository
}

func NewPlanUseCase(plans repository.PlanRepository) *planUC {
	return &planUC{plans: plans}
}

func (u *planUC) ListActive(ctx context.Context) ([]*model.Plan, error) {
	return u.plans.ListActive(ctx, repository.NoTX)
}

func (u *planUC) List(ctx context.Context) ([]*model.Plan, error) {
	return u.plans.ListAll(ctx, repository.NoTX)
}

func (u *planUC) Get(ctx context.Context, id string) (*model.Plan, error) {
	return u.plans.FindByID(ctx, repository.NoTX, id)
}

func (u *planUC) Create(ctx context.Context, name, description string, priceMajor float64, cycle, speed, dataLimit string) (*model.Plan, error) {
	if priceMajor <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	bc, err := model.ParseBillingCycle(cycle)
	if err != nil {
		return nil, err
	}
	plan, err := model.NewPlan(uuid.NewString(), name, description, model.MinorUnits(priceMajor), bc, speed, dataLimit)
	if err != nil {
		return nil, err
	}
	if err := u.plans.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (u *planUC) Update(ctx context.Context, plan *model.Plan) error {
	if plan == nil || plan.ID == "" {
		return domain.ErrInvalidArgument
	}
	if _, err := model.ParseBillingCycle(string(plan.BillingCycle)); err != nil {
		return err
	}
	return u.plans.Save(ctx, repository.NoTX, plan)
}

func (u *planUC) Deactivate(ctx context.Context, id string) error {
	plan, err := u.plans.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	plan.IsActive = false
	return u.plans.Save(ctx, repository.NoTX, plan)
}
