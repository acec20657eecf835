package handler

import (
	"context"

	posv1 "github.com/fekuna/omnipos-billing-service/api/posv1"
	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/bill"
	"github.com/fekuna/omnipos-billing-service/internal/bill/dto"
	"github.com/fekuna/omnipos-billing-service/internal/receipt"
	receiptdto "github.com/fekuna/omnipos-billing-service/internal/receipt/dto"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

type BillHandler struct {
	uc       bill.UseCase
	receipts receipt.UseCase
	logger   logger.ZapLogger
}

func NewBillHandler(uc bill.UseCase, receipts receipt.UseCase, log logger.ZapLogger) *BillHandler {
	return &BillHandler{
		uc:       uc,
		receipts: receipts,
		logger:   log,
	}
}

type idRequest struct {
	ID string `json:"id"`
}

func (h *BillHandler) ListBills(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.BillFilters
	if err := posv1.Decode(req, &filters); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	bills, count, err := h.uc.ListBills(ctx, &filters)
	if err != nil {
		h.logger.Error("failed to list bills", zap.Error(err))
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(map[string]interface{}{
		"bills":     bills,
		"total":     count,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *BillHandler) GetBill(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := posv1.Decode(req, &in); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	b, err := h.uc.GetBill(ctx, in.ID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(map[string]interface{}{"bill": b})
}

func (h *BillHandler) RenderReceipt(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input receiptdto.RenderInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	r, err := h.receipts.Render(ctx, &input)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(map[string]interface{}{"receipt": r})
}

func (h *BillHandler) SendReceipt(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input receiptdto.SendInput
	if err := posv1.Decode(req, &input); err != nil {
		return nil, apperror.ToStatus(apperror.BadRequest(err))
	}

	d, err := h.receipts.Send(ctx, &input)
	if err != nil {
		h.logger.Error("failed to send receipt", zap.String("bill_id", input.BillID), zap.Error(err))
		return nil, apperror.ToStatus(err)
	}
	return posv1.Encode(map[string]interface{}{"delivery": d})
}
