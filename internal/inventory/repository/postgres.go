package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, name, brand, category, item_number, price, discount_percentage, stock,
            sizes_stock, low_stock_threshold, description, image, color, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) AdjustStock(ctx context.Context, c *dto.StockChange) (*model.Product, *model.StockMovement, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var p model.Product
	err = tx.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, c.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	before, after, err := applyChange(&p, c)
	if err != nil {
		return nil, nil, err
	}
	p.UpdatedAt = time.Now()

	// conditional decrement: the aggregate never goes below zero
	floor := 0
	if c.Delta < 0 {
		floor = -c.Delta
	}
	res, err := tx.ExecContext(ctx, `
        UPDATE products
        SET stock = $1, sizes_stock = $2, updated_at = $3
        WHERE id = $4 AND stock >= $5
    `, p.Stock, p.SizesStock, p.UpdatedAt, p.ID, floor)
	if err != nil {
		return nil, nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, nil, err
	}
	if rows == 0 {
		return nil, nil, &apperror.InsufficientStockError{ProductID: c.ProductID, Size: c.Size, Requested: -c.Delta, Available: before}
	}

	movement := &model.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      p.ID,
		SelectedSize:   c.Size,
		MovementType:   c.MovementType,
		QuantityChange: c.Delta,
		QuantityBefore: before,
		QuantityAfter:  after,
		ReferenceID:    optional(c.ReferenceID),
		Notes:          c.Notes,
		CreatedBy:      optional(c.OperatorID),
		CreatedAt:      p.UpdatedAt,
	}
	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO stock_movements (
            id, product_id, selected_size, movement_type, quantity_change,
            quantity_before, quantity_after, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :product_id, :selected_size, :movement_type, :quantity_change,
            :quantity_before, :quantity_after, :reference_id, :notes, :created_by, :created_at
        )
    `, movement)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &p, movement, nil
}

// applyChange mutates p and returns the before and after counts of the affected key.
func applyChange(p *model.Product, c *dto.StockChange) (int, int, error) {
	if !p.HasSizes() {
		if c.Size != "" {
			return 0, 0, apperror.Validation("selected_size", "product %s has no sizes", p.ID)
		}
		before := p.Stock
		after := before + c.Delta
		if after < 0 {
			return 0, 0, &apperror.InsufficientStockError{ProductID: p.ID, Requested: -c.Delta, Available: before}
		}
		p.Stock = after
		return before, after, nil
	}

	if c.Size == "" {
		return 0, 0, apperror.Validation("selected_size", "product %s requires a size", p.ID)
	}
	before := p.SizesStock[c.Size]
	after := before + c.Delta
	if after < 0 {
		return 0, 0, &apperror.InsufficientStockError{ProductID: p.ID, Size: c.Size, Requested: -c.Delta, Available: before}
	}
	sizes := p.SizesStock.Clone()
	sizes[c.Size] = after
	p.SizesStock = sizes
	p.NormalizeStock()
	return before, after, nil
}

func (r *PGRepository) ListLowStock(ctx context.Context, f *dto.LowStockFilters) ([]model.Product, int, error) {
	const where = ` FROM products WHERE stock <= low_stock_threshold`

	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT count(*)`+where); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + where + ` ORDER BY stock ASC, name ASC`
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset(f.Page, f.PageSize))
	}

	products := []model.Product{}
	if err := r.DB.SelectContext(ctx, &products, query); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset(f.Page, f.PageSize))
	}
	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}

	items := []model.StockMovement{}
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
