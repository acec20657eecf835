package auth

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/auth/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type UseCase interface {
	SignIn(ctx context.Context, input *dto.SignInInput) (*dto.SignInResult, error)
	GetSession(ctx context.Context, token string) (*model.Session, error)
	SignOut(ctx context.Context, token string) error

	// EnsureOperator creates the operator when the email is not registered yet.
	EnsureOperator(ctx context.Context, input *dto.CreateOperatorInput) (*model.Operator, error)
}
