package handler

import (
	"context"

	posv1 "github.com/fekuna/omnipos-billing-service/api/posv1"
	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/auth"
	billdto "github.com/fekuna/omnipos-billing-service/internal/bill/dto"
	"github.com/fekuna/omnipos-billing-service/internal/cart/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

// UseCase is implemented by usecase.CartUseCase.
type UseCase interface {
	GetCart(ctx context.Context, session *model.Session) (*dto.View, error)
	AddItem(ctx context.Context, session *model.Session, input *dto.AddItemInput) (*dto.View, error)
	UpdateQuantity(ctx context.Context, session *model.Session, input *dto.UpdateQuantityInput) (*dto.View, error)
	RemoveItem(ctx context.Context, session *model.Session, input *dto.ItemKeyInput) (*dto.View, error)
	Clear(ctx context.Context, session *model.Session) (*dto.View, error)
	ApplyDiscount(ctx context.Context, session *model.Session, input *dto.DiscountInput) (*dto.View, error)
	RemoveDiscount(ctx context.Context, session *model.Session) (*dto.View, error)
	Checkout(ctx context.Context, session *model.Session, input *dto.CheckoutInput) (*billdto.CheckoutResult, error)
}

type CartHandler struct {
	uc     UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CartHandler) GetCart(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return viewResponse(h.uc.GetCart(ctx, auth.SessionFromContext(ctx)))
}

func (h *CartHandler) AddItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.AddItemInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}
	return viewResponse(h.uc.AddItem(ctx, auth.SessionFromContext(ctx), &input))
}

func (h *CartHandler) UpdateQuantity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateQuantityInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}
	return viewResponse(h.uc.UpdateQuantity(ctx, auth.SessionFromContext(ctx), &input))
}

func (h *CartHandler) RemoveItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.ItemKeyInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}
	return viewResponse(h.uc.RemoveItem(ctx, auth.SessionFromContext(ctx), &input))
}

func (h *CartHandler) Clear(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return viewResponse(h.uc.Clear(ctx, auth.SessionFromContext(ctx)))
}

func (h *CartHandler) ApplyDiscount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.DiscountInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}
	return viewResponse(h.uc.ApplyDiscount(ctx, auth.SessionFromContext(ctx), &input))
}

func (h *CartHandler) RemoveDiscount(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return viewResponse(h.uc.RemoveDiscount(ctx, auth.SessionFromContext(ctx)))
}

func (h *CartHandler) Checkout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CheckoutInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	result, err := h.uc.Checkout(ctx, auth.SessionFromContext(ctx), &input)
	if err != nil {
		h.logger.Error("checkout failed", zap.Error(err))
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(result)
}

func viewResponse(v *dto.View, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(v)
}
