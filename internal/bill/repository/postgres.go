package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-billing-service/internal/bill/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const billColumns = `id, created_at, customer_name, customer_phone, customer_email, payment_method,
            subtotal, tax, discount_type, discount_value, discount_amount, total, status, operator_id`

var ErrStatusConflict = errors.New("bill status changed concurrently")

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateWithItems(ctx context.Context, b *model.BillWithItems) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.InsertBill(ctx, tx, &b.Bill); err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}
	for i := range b.Items {
		if err := r.InsertBillItem(ctx, tx, &b.Items[i]); err != nil {
			return fmt.Errorf("insert bill item %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) InsertBill(ctx context.Context, ext sqlx.ExtContext, b *model.Bill) error {
	query := `
        INSERT INTO bills (` + billColumns + `)
        VALUES (
            :id, :created_at, :customer_name, :customer_phone, :customer_email, :payment_method,
            :subtotal, :tax, :discount_type, :discount_value, :discount_amount, :total, :status, :operator_id
        )
    `
	_, err := sqlx.NamedExecContext(ctx, ext, query, b)
	return err
}

func (r *PGRepository) InsertBillItem(ctx context.Context, ext sqlx.ExtContext, item *model.BillItem) error {
	query := `
        INSERT INTO bill_items (
            id, bill_id, product_id, product_name, product_price, discount_percentage,
            selected_size, quantity, total, position
        )
        VALUES (
            :id, :bill_id, :product_id, :product_name, :product_price, :discount_percentage,
            :selected_size, :quantity, :total, :position
        )
    `
	_, err := sqlx.NamedExecContext(ctx, ext, query, item)
	return err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, from, to model.BillStatus) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("bill %s: illegal transition %s -> %s", id, from, to)
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE bills SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("bill %s is not %s: %w", id, from, ErrStatusConflict)
	}
	return nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.BillFilters) ([]model.Bill, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.From != nil {
		conditions = append(conditions, "created_at >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "created_at < :to")
		args["to"] = *f.To
	}
	if f.PaymentMethod != "" {
		conditions = append(conditions, "payment_method = :payment_method")
		args["payment_method"] = f.PaymentMethod
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.Query != "" {
		conditions = append(conditions, "(customer_name ILIKE :query OR customer_phone ILIKE :query)")
		args["query"] = "%" + f.Query + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM bills"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM bills%s ORDER BY created_at DESC", billColumns, whereClause)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}
	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}

	bills := []model.Bill{}
	if err := r.DB.SelectContext(ctx, &bills, r.DB.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}
	return bills, count, nil
}

func (r *PGRepository) FindByIDWithItems(ctx context.Context, id string) (*model.BillWithItems, error) {
	var b model.BillWithItems
	err := r.DB.GetContext(ctx, &b.Bill, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	b.Items = []model.BillItem{}
	err = r.DB.SelectContext(ctx, &b.Items, `
        SELECT id, bill_id, product_id, product_name, product_price, discount_percentage,
               selected_size, quantity, total, position
        FROM bill_items WHERE bill_id = $1 ORDER BY position
    `, id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
