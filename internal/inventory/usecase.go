package inventory

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type UseCase interface {
	DecreaseStock(ctx context.Context, input *dto.StockChangeInput) (*model.Product, error)
	Restock(ctx context.Context, input *dto.StockChangeInput) (*model.Product, error)
	ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.Product, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
