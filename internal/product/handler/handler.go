package handler

import (
	"context"

	posv1 "github.com/fekuna/omnipos-billing-service/api/posv1"
	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/product"
	"github.com/fekuna/omnipos-billing-service/internal/product/dto"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

type idRequest struct {
	ID string `json:"id"`
}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateProductInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	p, err := h.uc.CreateProduct(ctx, &input)
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		return nil, apperror.ToStatus(err)
	}
	return productResponse(p)
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := posv1.Decode(req, &in); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	p, err := h.uc.GetProduct(ctx, in.ID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return productResponse(p)
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.ProductFilters
	if err := posv1.Decode(req, &filters); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	products, count, err := h.uc.ListProducts(ctx, &filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
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

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateProductInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	p, err := h.uc.UpdateProduct(ctx, &input)
	if err != nil {
		h.logger.Error("failed to update product", zap.String("product_id", input.ID), zap.Error(err))
		return nil, apperror.ToStatus(err)
	}
	return productResponse(p)
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := posv1.Decode(req, &in); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	if err := h.uc.DeleteProduct(ctx, in.ID); err != nil {
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(map[string]interface{}{"deleted": true, "id": in.ID})
}

func productResponse(p *model.Product) (*structpb.Struct, error) {
	return posv1.Encode(map[string]interface{}{"product": model.WithStatus(*p)})
}
