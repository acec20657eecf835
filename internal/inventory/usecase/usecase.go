package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/inventory"
	"github.com/fekuna/omnipos-billing-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/product"
	"github.com/fekuna/omnipos-billing-service/pkg/cache"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

type inventoryUseCase struct {
	repo     inventory.Repository
	products product.UseCase
	cache    *cache.RedisClient
	logger   logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, products product.UseCase, cache *cache.RedisClient, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:     repo,
		products: products,
		cache:    cache,
		logger:   log,
	}
}

func (uc *inventoryUseCase) DecreaseStock(ctx context.Context, input *dto.StockChangeInput) (*model.Product, error) {
	if input.Quantity < 1 {
		return nil, apperror.Validation("quantity", "quantity must be at least 1")
	}
	return uc.adjust(ctx, &dto.StockChange{
		ProductID:    input.ProductID,
		Size:         strings.TrimSpace(input.Size),
		Delta:        -input.Quantity,
		MovementType: model.MovementSale,
		ReferenceID:  input.ReferenceID,
		Notes:        input.Notes,
		OperatorID:   input.OperatorID,
	})
}

func (uc *inventoryUseCase) Restock(ctx context.Context, input *dto.StockChangeInput) (*model.Product, error) {
	if input.Quantity < 1 {
		return nil, apperror.Validation("quantity", "quantity must be at least 1")
	}
	notes := input.Notes
	if notes == "" {
		notes = "restock"
	}
	return uc.adjust(ctx, &dto.StockChange{
		ProductID:    input.ProductID,
		Size:         strings.TrimSpace(input.Size),
		Delta:        input.Quantity,
		MovementType: model.MovementRestock,
		ReferenceID:  input.ReferenceID,
		Notes:        notes,
		OperatorID:   input.OperatorID,
	})
}

func (uc *inventoryUseCase) adjust(ctx context.Context, change *dto.StockChange) (*model.Product, error) {
	if change.ProductID == "" {
		return nil, apperror.Validation("product_id", "product id is required")
	}

	lockKey := fmt.Sprintf("lock:inventory:%s", change.ProductID)
	lockValue := uuid.New().String()
	if err := uc.acquireLock(ctx, lockKey, lockValue); err != nil {
		return nil, err
	}
	defer func() {
		if err := uc.cache.ReleaseLock(context.Background(), lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release inventory lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	p, movement, err := uc.repo.AdjustStock(ctx, change)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", change.ProductID)
	}

	uc.products.InvalidateListCache(ctx)
	uc.logger.Info("stock adjusted",
		zap.String("product_id", p.ID),
		zap.String("size", change.Size),
		zap.String("movement", change.MovementType),
		zap.Int("before", movement.QuantityBefore),
		zap.Int("after", movement.QuantityAfter),
	)
	return p, nil
}

func (uc *inventoryUseCase) acquireLock(ctx context.Context, key, value string) error {
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.cache.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	return fmt.Errorf("lock %s: %w", key, apperror.ErrBusy)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.Product, int, error) {
	if filters == nil {
		filters = &dto.LowStockFilters{}
	}
	return uc.repo.ListLowStock(ctx, filters)
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	if filters == nil {
		filters = &dto.MovementFilters{}
	}
	return uc.repo.ListMovements(ctx, filters)
}
