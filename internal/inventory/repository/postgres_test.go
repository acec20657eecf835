package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "name", "brand", "category", "item_number", "price", "discount_percentage", "stock",
	"sizes_stock", "low_stock_threshold", "description", "image", "color", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

func lockedRow(stock int, sizes interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(columns).
		AddRow("p-1", "Oxford", "Acme", "Shirts", "OX-1", "499", "0", stock, sizes, 5, nil, nil, nil, now, now)
}

func TestAdjustStockDecrementsAndLogsMovement(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = $1 FOR UPDATE")).
		WithArgs("p-1").
		WillReturnRows(lockedRow(7, nil))
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $4 AND stock >= $5")).
		WithArgs(4, sqlmock.AnyArg(), sqlmock.AnyArg(), "p-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stock_movements")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, movement, err := repo.AdjustStock(context.Background(), &dto.StockChange{
		ProductID:    "p-1",
		Delta:        -3,
		MovementType: model.MovementSale,
		ReferenceID:  "bill-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, 7, movement.QuantityBefore)
	assert.Equal(t, 4, movement.QuantityAfter)
	require.NotNil(t, movement.ReferenceID)
	assert.Equal(t, "bill-1", *movement.ReferenceID)
	assert.Nil(t, movement.CreatedBy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStockSizedProductRecomputesAggregate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("p-1").
		WillReturnRows(lockedRow(4, []byte(`{"M":3,"L":1}`)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WithArgs(2, sqlmock.AnyArg(), sqlmock.AnyArg(), "p-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stock_movements")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, movement, err := repo.AdjustStock(context.Background(), &dto.StockChange{
		ProductID: "p-1", Size: "M", Delta: -2, MovementType: model.MovementSale,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SizesStock{"M": 1, "L": 1}, p.SizesStock)
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, 3, movement.QuantityBefore)
	assert.Equal(t, 1, movement.QuantityAfter)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStockInsufficient(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("p-1").
		WillReturnRows(lockedRow(2, nil))
	mock.ExpectRollback()

	_, _, err := repo.AdjustStock(context.Background(), &dto.StockChange{ProductID: "p-1", Delta: -3})
	require.True(t, apperror.IsInsufficientStock(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStockConditionalUpdateMisses(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("p-1").
		WillReturnRows(lockedRow(5, nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := repo.AdjustStock(context.Background(), &dto.StockChange{ProductID: "p-1", Delta: -1})
	require.True(t, apperror.IsInsufficientStock(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStockSizeRules(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(lockedRow(5, nil))
	mock.ExpectRollback()
	_, _, err := repo.AdjustStock(context.Background(), &dto.StockChange{ProductID: "p-1", Size: "M", Delta: -1})
	assert.True(t, apperror.IsValidation(err))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(lockedRow(4, []byte(`{"M":4}`)))
	mock.ExpectRollback()
	_, _, err = repo.AdjustStock(context.Background(), &dto.StockChange{ProductID: "p-1", Delta: -1})
	assert.True(t, apperror.IsValidation(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStockMissingProduct(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectRollback()

	p, movement, err := repo.AdjustStock(context.Background(), &dto.StockChange{ProductID: "gone", Delta: -1})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Nil(t, movement)
}

func TestRestockAddsToSize(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(lockedRow(1, []byte(`{"M":1}`)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WithArgs(6, sqlmock.AnyArg(), sqlmock.AnyArg(), "p-1", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stock_movements")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, _, err := repo.AdjustStock(context.Background(), &dto.StockChange{
		ProductID: "p-1", Size: "XL", Delta: 5, MovementType: model.MovementRestock, OperatorID: "op-1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SizesStock{"M": 1, "XL": 5}, p.SizesStock)
	assert.Equal(t, 6, p.Stock)
}

func TestListLowStock(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM products WHERE stock <= low_stock_threshold")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY stock ASC, name ASC LIMIT 10 OFFSET 0")).
		WillReturnRows(lockedRow(2, nil))

	products, count, err := repo.ListLowStock(context.Background(), &dto.LowStockFilters{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, products, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListMovementsFilters(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM stock_movements WHERE product_id = $1 AND movement_type = $2")).
		WithArgs("p-1", "sale").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs("p-1", "sale").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "product_id", "selected_size", "movement_type", "quantity_change",
			"quantity_before", "quantity_after", "reference_id", "notes", "created_by", "created_at",
		}).AddRow("m-1", "p-1", "", "sale", -1, 3, 2, "bill-1", "sale", "op-1", now))

	items, count, err := repo.ListMovements(context.Background(), &dto.MovementFilters{ProductID: "p-1", MovementType: "sale"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, items, 1)
	assert.Equal(t, -1, items[0].QuantityChange)
}
