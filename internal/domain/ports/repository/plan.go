package repository

import (
	"context"

	"isp-selfcare/internal/domain/model"
)

// PlanRepository is the port for plan persistence. There is no delete:
// payments and subscriptions reference plans forever, so plans are only
// ever deactivated.
type PlanRepository interface {
	Save(ctx context.Context, qx Tx, plan *model.Plan) error
	FindByID(ctx context.Context, qx Tx, id string) (*model.Plan, error)
	ListActive(ctx context.Context, qx Tx) ([]*model.Plan, error)
	ListAll(ctx context.Context, qx Tx) ([]*model.Plan, error)
}
