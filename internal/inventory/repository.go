package inventory

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type Repository interface {
	// AdjustStock locks the product row, applies the change and logs the movement.
	// It returns nil values when the product does not exist.
	AdjustStock(ctx context.Context, change *dto.StockChange) (*model.Product, *model.StockMovement, error)

	ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.Product, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
