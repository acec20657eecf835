package usecase

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/bill"
	"github.com/fekuna/omnipos-billing-service/internal/bill/dto"
	"github.com/fekuna/omnipos-billing-service/internal/cart"
	"github.com/fekuna/omnipos-billing-service/internal/inventory"
	inventorydto "github.com/fekuna/omnipos-billing-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/fekuna/omnipos-billing-service/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type billUseCase struct {
	repo      bill.Repository
	inventory inventory.UseCase
	publisher bill.Publisher
	taxRate   decimal.Decimal
	logger    logger.ZapLogger
}

// NewBillUseCase accepts a nil publisher; BillCompleted events are then not emitted.
func NewBillUseCase(repo bill.Repository, inv inventory.UseCase, publisher bill.Publisher, taxRate decimal.Decimal, log logger.ZapLogger) bill.UseCase {
	return &billUseCase{
		repo:      repo,
		inventory: inv,
		publisher: publisher,
		taxRate:   taxRate,
		logger:    log,
	}
}

func (uc *billUseCase) Checkout(ctx context.Context, session *model.Session, input *dto.CheckoutInput) (*dto.CheckoutResult, error) {
	if session == nil {
		return nil, apperror.ErrAuthenticationRequired
	}
	if input == nil || len(input.Items) == 0 {
		metrics.CheckoutTotal.WithLabelValues("rejected").Inc()
		return nil, apperror.ErrEmptyCart
	}
	if input.Discount.Type == "" {
		input.Discount = model.NoDiscount()
	}
	if err := validateCheckout(input); err != nil {
		metrics.CheckoutTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	b := uc.buildBill(session, input)
	log := uc.logger.With(zap.String("bill_id", b.ID), zap.String("operator_id", session.OperatorID))

	if err := uc.repo.CreateWithItems(ctx, b); err != nil {
		metrics.CheckoutTotal.WithLabelValues("failed").Inc()
		log.Error("failed to persist bill", zap.Error(err))
		return nil, apperror.Persistence("bill", err)
	}

	// the bill is stored; a client hanging up must not leave stock unreconciled
	ctx = context.WithoutCancel(ctx)

	warnings, lowStock := uc.reconcile(ctx, session, b)
	if err := uc.advance(ctx, b, model.BillStatusReconciled); err != nil {
		log.Error("failed to mark bill reconciled", zap.Error(err))
	} else if err := uc.advance(ctx, b, model.BillStatusCompleted); err != nil {
		log.Error("failed to mark bill completed", zap.Error(err))
	}

	if len(warnings) > 0 {
		metrics.StockWarningsTotal.Add(float64(len(warnings)))
		log.Warn("bill completed with stock warnings", zap.Int("warnings", len(warnings)))
	}
	metrics.CheckoutTotal.WithLabelValues("completed").Inc()

	uc.publish(ctx, b, warnings, log)

	log.Info("checkout completed",
		zap.String("total", b.Total.StringFixed(2)),
		zap.Int("items", len(b.Items)),
	)
	return &dto.CheckoutResult{Bill: b, Warnings: warnings, LowStock: lowStock}, nil
}

func validateCheckout(input *dto.CheckoutInput) error {
	if strings.TrimSpace(input.Customer.Name) == "" {
		return apperror.Validation("customer_name", "customer name is required")
	}
	if strings.TrimSpace(input.Customer.Phone) == "" {
		return apperror.Validation("customer_phone", "customer phone is required")
	}
	if email := strings.TrimSpace(input.Customer.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return apperror.Validation("customer_email", "invalid email %q", email)
		}
	}
	if !input.PaymentMethod.Valid() {
		return apperror.Validation("payment_method", "unknown payment method %q", input.PaymentMethod)
	}
	if err := cart.ValidateDiscount(input.Discount); err != nil {
		return err
	}
	for _, it := range input.Items {
		if it.Quantity < 1 {
			return apperror.Validation("quantity", "quantity of %s must be at least 1", it.Product.Name)
		}
	}
	return nil
}

// buildBill recomputes every amount from the line snapshots; client supplied totals are never trusted.
func (uc *billUseCase) buildBill(session *model.Session, input *dto.CheckoutInput) *model.BillWithItems {
	totals := cart.Compute(input.Items, input.Discount, uc.taxRate)
	id := uuid.New().String()

	items := make([]model.BillItem, len(input.Items))
	for i, it := range input.Items {
		items[i] = model.BillItem{
			ID:                 uuid.New().String(),
			BillID:             id,
			ProductID:          it.Product.ID,
			ProductName:        it.Product.Name,
			ProductPrice:       it.Product.Price,
			DiscountPercentage: it.Product.DiscountPercentage,
			SelectedSize:       it.SelectedSize,
			Quantity:           it.Quantity,
			Total:              it.LineTotal().Round(2),
			Position:           i,
		}
	}

	return &model.BillWithItems{
		Bill: model.Bill{
			ID:             id,
			CreatedAt:      time.Now().UTC(),
			CustomerName:   strings.TrimSpace(input.Customer.Name),
			CustomerPhone:  strings.TrimSpace(input.Customer.Phone),
			CustomerEmail:  strings.TrimSpace(input.Customer.Email),
			PaymentMethod:  input.PaymentMethod,
			Subtotal:       totals.Subtotal,
			Tax:            totals.Tax,
			DiscountType:   input.Discount.Type,
			DiscountValue:  input.Discount.Value,
			DiscountAmount: totals.Discount,
			Total:          totals.Total,
			Status:         model.BillStatusPersisted,
			OperatorID:     session.OperatorID,
		},
		Items: items,
	}
}

// reconcile decrements stock line by line in cart order. A failed line never stops the rest.
func (uc *billUseCase) reconcile(ctx context.Context, session *model.Session, b *model.BillWithItems) ([]dto.Warning, []dto.StockNotice) {
	warnings := []dto.Warning{}
	lowStock := []dto.StockNotice{}
	noticeIdx := map[string]int{}

	for _, item := range b.Items {
		p, err := uc.inventory.DecreaseStock(ctx, &inventorydto.StockChangeInput{
			ProductID:   item.ProductID,
			Size:        item.SelectedSize,
			Quantity:    item.Quantity,
			ReferenceID: b.ID,
			Notes:       "sale",
			OperatorID:  session.OperatorID,
		})
		if err != nil {
			uc.logger.Warn("stock decrement failed",
				zap.String("bill_id", b.ID),
				zap.String("product_id", item.ProductID),
				zap.String("size", item.SelectedSize),
				zap.Error(err),
			)
			warnings = append(warnings, dto.Warning{ProductID: item.ProductID, Size: item.SelectedSize, Reason: err.Error()})
			continue
		}

		status := p.StockStatus()
		if status == model.StockStatusInStock {
			continue
		}
		notice := dto.StockNotice{ProductID: p.ID, Name: p.Name, Stock: p.Stock, Status: status}
		// a product sold in several sizes keeps one notice with its latest stock
		if i, ok := noticeIdx[p.ID]; ok {
			lowStock[i] = notice
			continue
		}
		noticeIdx[p.ID] = len(lowStock)
		lowStock = append(lowStock, notice)
	}
	return warnings, lowStock
}

func (uc *billUseCase) advance(ctx context.Context, b *model.BillWithItems, to model.BillStatus) error {
	if err := uc.repo.UpdateStatus(ctx, b.ID, b.Status, to); err != nil {
		return err
	}
	b.Status = to
	return nil
}

func (uc *billUseCase) publish(ctx context.Context, b *model.BillWithItems, warnings []dto.Warning, log logger.ZapLogger) {
	if uc.publisher == nil {
		return
	}
	event := &dto.BillCompletedEvent{
		EventID:   uuid.New().String(),
		EventType: dto.EventBillCompleted,
		Payload:   b,
		Warnings:  warnings,
		Timestamp: time.Now().UTC(),
	}
	if err := uc.publisher.PublishBillCompleted(ctx, event); err != nil {
		log.Error("failed to publish bill event", zap.Error(err))
	}
}

func (uc *billUseCase) ListBills(ctx context.Context, filters *dto.BillFilters) ([]model.Bill, int, error) {
	if filters == nil {
		filters = &dto.BillFilters{}
	}
	if filters.PaymentMethod != "" && !filters.PaymentMethod.Valid() {
		return nil, 0, apperror.Validation("payment_method", "unknown payment method %q", filters.PaymentMethod)
	}
	if filters.From != nil && filters.To != nil && filters.To.Before(*filters.From) {
		return nil, 0, apperror.Validation("to", "end of range is before its start")
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *billUseCase) GetBill(ctx context.Context, id string) (*model.BillWithItems, error) {
	b, err := uc.repo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperror.NotFound("bill", id)
	}
	return b, nil
}
