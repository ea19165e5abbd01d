package repository

import (
	"context"

	"isp-selfcare/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, qx Tx, u *model.User) error
	FindByID(ctx context.Context, qx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, qx Tx, email string) (*model.User, error)
	CountUsers(ctx context.Context, qx Tx) (int, error)
}
