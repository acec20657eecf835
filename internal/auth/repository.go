package auth

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*model.Operator, error)
	Create(ctx context.Context, op *model.Operator) error
}

type SessionStore interface {
	Save(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}
