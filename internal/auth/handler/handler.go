package handler

import (
	"context"

	posv1 "github.com/fekuna/omnipos-billing-service/api/posv1"
	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/auth"
	"github.com/fekuna/omnipos-billing-service/internal/auth/dto"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

type AuthHandler struct {
	uc     auth.UseCase
	logger logger.ZapLogger
}

func NewAuthHandler(uc auth.UseCase, log logger.ZapLogger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AuthHandler) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.SignInInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	result, err := h.uc.SignIn(ctx, &input)
	if err != nil {
		h.logger.Warn("sign in failed", zap.String("email", input.Email), zap.Error(err))
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(result)
}

func (h *AuthHandler) SignOut(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := h.uc.SignOut(ctx, auth.TokenFromContext(ctx)); err != nil {
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(map[string]interface{}{"signed_out": true})
}

func (h *AuthHandler) GetSession(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	session := auth.SessionFromContext(ctx)
	if session == nil {
		return nil, apperror.ToStatus(apperror.ErrAuthenticationRequired)
	}
	return posv1.Encode(map[string]interface{}{"session": session})
}
