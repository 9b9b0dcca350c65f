package ports

import (
	"context"
	"file-service/internal/model"
)

type AuthenticationService interface {
	Signup(ctx context.Context, login, password string) (*model.TokensPair, error)
	Signin(ctx context.Context, login, password string) (*model.TokensPair, error)
}
