package handler

import (
	"context"

	posv1 "github.com/fekuna/omnipos-billing-service/api/posv1"
	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/auth"
	"github.com/fekuna/omnipos-billing-service/internal/inventory"
	"github.com/fekuna/omnipos-billing-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Restock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.StockChangeInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}
	if s := auth.SessionFromContext(ctx); s != nil {
		input.OperatorID = s.OperatorID
	}

	p, err := h.uc.Restock(ctx, &input)
	if err != nil {
		h.logger.Error("failed to restock", zap.String("product_id", input.ProductID), zap.Error(err))
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(map[string]interface{}{"product": model.WithStatus(*p)})
}

func (h *InventoryHandler) ListLowStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.LowStockFilters
	if err := posv1.Decode(req, &filters); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	products, count, err := h.uc.ListLowStock(ctx, &filters)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}

	items := make([]model.ProductWithStatus, len(products))
	for i, p := range products {
		items[i] = model.WithStatus(p)
	}
	return posv1.Encode(map[string]interface{}{
		"products":  items,
		"total":     count,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.MovementFilters
	if err := posv1.Decode(req, &filters); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	movements, count, err := h.uc.ListMovements(ctx, &filters)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(map[string]interface{}{
		"movements": movements,
		"total":     count,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}
