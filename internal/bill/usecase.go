package bill

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/bill/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type UseCase interface {
	Checkout(ctx context.Context, session *model.Session, input *dto.CheckoutInput) (*dto.CheckoutResult, error)
	ListBills(ctx context.Context, filters *dto.BillFilters) ([]model.Bill, int, error)
	GetBill(ctx context.Context, id string) (*model.BillWithItems, error)
}
