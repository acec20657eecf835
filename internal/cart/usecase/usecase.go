package usecase

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/bill"
	billdto "github.com/fekuna/omnipos-billing-service/internal/bill/dto"
	"github.com/fekuna/omnipos-billing-service/internal/cart"
	"github.com/fekuna/omnipos-billing-service/internal/cart/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/product"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartUseCase edits the cart of the calling operator session and checks it out.
type CartUseCase struct {
	store    cart.Repository
	products product.UseCase
	bills    bill.UseCase
	taxRate  decimal.Decimal
	logger   logger.ZapLogger
}

func NewCartUseCase(store cart.Repository, products product.UseCase, bills bill.UseCase, taxRate decimal.Decimal, log logger.ZapLogger) *CartUseCase {
	return &CartUseCase{
		store:    store,
		products: products,
		bills:    bills,
		taxRate:  taxRate,
		logger:   log,
	}
}

func (uc *CartUseCase) GetCart(ctx context.Context, session *model.Session) (*dto.View, error) {
	if session == nil {
		return nil, apperror.ErrAuthenticationRequired
	}
	c, err := uc.store.Get(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return uc.view(c), nil
}

// AddItem snapshots the current product so stock checks run against fresh numbers.
func (uc *CartUseCase) AddItem(ctx context.Context, session *model.Session, input *dto.AddItemInput) (*dto.View, error) {
	if session == nil {
		return nil, apperror.ErrAuthenticationRequired
	}
	if input.ProductID == "" {
		return nil, apperror.Validation("product_id", "product id is required")
	}
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	p, err := uc.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	return uc.update(ctx, session, func(c *cart.Cart) error {
		return c.AddItem(*p, quantity, input.SelectedSize)
	})
}

func (uc *CartUseCase) UpdateQuantity(ctx context.Context, session *model.Session, input *dto.UpdateQuantityInput) (*dto.View, error) {
	if session == nil {
		return nil, apperror.ErrAuthenticationRequired
	}
	return uc.update(ctx, session, func(c *cart.Cart) error {
		return c.UpdateQuantity(input.ProductID, input.SelectedSize, input.Quantity)
	})
}

func (uc *CartUseCase) RemoveItem(ctx context.Context, session *model.Session, input *dto.ItemKeyInput) (*dto.View, error) {
	if session == nil {
		return nil, apperror.ErrAuthenticationRequired
	}
	return uc.update(ctx, session, func(c *cart.Cart) error {
		c.RemoveItem(input.ProductID, input.SelectedSize)
		return nil
	})
}

func (uc *CartUseCase) Clear(ctx context.Context, session *model.Session) (*dto.View, error) {
	if session == nil {
		return nil, apperror.ErrAuthenticationRequired
	}
	if err := uc.store.Delete(ctx, session.ID); err != nil {
		return nil, err
	}
	return uc.view(cart.New()), nil
}

func (uc *CartUseCase) ApplyDiscount(ctx context.Context, session *model.Session, input *dto.DiscountInput) (*dto.View, error) {
	if session == nil {
		return nil, apperror.ErrAuthenticationRequired
	}
	return uc.update(ctx, session, func(c *cart.Cart) error {
		return c.ApplyDiscount(input.Type, input.Value)
	})
}

func (uc *CartUseCase) RemoveDiscount(ctx context.Context, session *model.Session) (*dto.View, error) {
	if session == nil {
		return nil, apperror.ErrAuthenticationRequired
	}
	return uc.update(ctx, session, func(c *cart.Cart) error {
		c.RemoveDiscount()
		return nil
	})
}

// Checkout bills the stored cart. The cart is cleared only once the bill exists.
func (uc *CartUseCase) Checkout(ctx context.Context, session *model.Session, input *dto.CheckoutInput) (*billdto.CheckoutResult, error) {
	if session == nil {
		return nil, apperror.ErrAuthenticationRequired
	}
	c, err := uc.store.Get(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	result, err := uc.bills.Checkout(ctx, session, &billdto.CheckoutInput{
		Items:         c.Items,
		Discount:      c.Discount,
		Customer:      input.Customer,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.store.Delete(context.WithoutCancel(ctx), session.ID); err != nil {
		uc.logger.Error("failed to clear cart after checkout",
			zap.String("session_id", session.ID),
			zap.String("bill_id", result.Bill.ID),
			zap.Error(err),
		)
	}
	return result, nil
}

func (uc *CartUseCase) update(ctx context.Context, session *model.Session, fn func(*cart.Cart) error) (*dto.View, error) {
	c, err := uc.store.Update(ctx, session.ID, fn)
	if err != nil {
		return nil, err
	}
	return uc.view(c), nil
}

func (uc *CartUseCase) view(c *cart.Cart) *dto.View {
	count := 0
	for _, it := range c.Items {
		count += it.Quantity
	}
	return &dto.View{Cart: c, Totals: c.Totals(uc.taxRate), ItemCount: count}
}
