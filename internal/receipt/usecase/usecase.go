package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/bill"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/receipt"
	"github.com/fekuna/omnipos-billing-service/internal/receipt/dto"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/fekuna/omnipos-billing-service/pkg/metrics"
	"go.uber.org/zap"
)

const channelWhatsApp = "whatsapp"

var errDeliveryDisabled = apperror.Validation("channel", "WhatsApp delivery is not enabled")

type receiptUseCase struct {
	bills       bill.UseCase
	renderer    *receipt.Renderer
	sender      receipt.Sender
	defaultLang string
	logger      logger.ZapLogger
}

// NewReceiptUseCase accepts a nil sender when WhatsApp delivery is disabled.
func NewReceiptUseCase(bills bill.UseCase, renderer *receipt.Renderer, sender receipt.Sender, defaultLang string, log logger.ZapLogger) receipt.UseCase {
	return &receiptUseCase{
		bills:       bills,
		renderer:    renderer,
		sender:      sender,
		defaultLang: defaultLang,
		logger:      log,
	}
}

func (uc *receiptUseCase) Render(ctx context.Context, input *dto.RenderInput) (*dto.Receipt, error) {
	b, err := uc.bills.GetBill(ctx, input.BillID)
	if err != nil {
		return nil, err
	}
	lang := uc.lang(input.Language)
	return &dto.Receipt{BillID: b.ID, Language: lang, Text: uc.renderer.Render(b, lang)}, nil
}

func (uc *receiptUseCase) Send(ctx context.Context, input *dto.SendInput) (*dto.Delivery, error) {
	if uc.sender == nil {
		return nil, errDeliveryDisabled
	}
	b, err := uc.bills.GetBill(ctx, input.BillID)
	if err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		phone = b.CustomerPhone
	}
	if phone == "" {
		return nil, apperror.Validation("phone", "a phone number is required to send the receipt")
	}
	return uc.deliver(ctx, b, phone, uc.lang(input.Language))
}

func (uc *receiptUseCase) DeliverCompleted(ctx context.Context, b *model.BillWithItems) (*dto.Delivery, error) {
	if uc.sender == nil || b.Status != model.BillStatusCompleted || strings.TrimSpace(b.CustomerPhone) == "" {
		return nil, nil
	}
	return uc.deliver(ctx, b, b.CustomerPhone, uc.defaultLang)
}

func (uc *receiptUseCase) deliver(ctx context.Context, b *model.BillWithItems, phone, lang string) (*dto.Delivery, error) {
	body := uc.renderer.Greeting(b, lang) + "\n\n" + uc.renderer.Render(b, lang)

	id, err := uc.sender.SendText(ctx, phone, body)
	if err != nil {
		metrics.ReceiptsSentTotal.WithLabelValues(channelWhatsApp, "failed").Inc()
		uc.logger.Error("failed to send receipt", zap.String("bill_id", b.ID), zap.Error(err))
		return nil, err
	}

	metrics.ReceiptsSentTotal.WithLabelValues(channelWhatsApp, "sent").Inc()
	uc.logger.Info("receipt sent", zap.String("bill_id", b.ID), zap.String("message_id", id))
	return &dto.Delivery{BillID: b.ID, Channel: channelWhatsApp, Phone: phone, MessageID: id}, nil
}

func (uc *receiptUseCase) lang(requested string) string {
	if requested = strings.TrimSpace(requested); requested != "" {
		return requested
	}
	return uc.defaultLang
}
