package bill

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/bill/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type Repository interface {
	// CreateWithItems stores the header and every item in one transaction.
	CreateWithItems(ctx context.Context, bill *model.BillWithItems) error
	// UpdateStatus only succeeds when the stored status is still from.
	UpdateStatus(ctx context.Context, id string, from, to model.BillStatus) error
	FindAll(ctx context.Context, filters *dto.BillFilters) ([]model.Bill, int, error)
	FindByIDWithItems(ctx context.Context, id string) (*model.BillWithItems, error)
}

type Publisher interface {
	PublishBillCompleted(ctx context.Context, event *dto.BillCompletedEvent) error
}
