package ports

import (
	"context"
	"file-service/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	Exists(ctx context.Context, login string) (bool, error)
}
