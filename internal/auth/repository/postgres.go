package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.Operator, error) {
	var op model.Operator
	query := `
        SELECT id, email, name, password_hash, role, is_active, created_at, updated_at
        FROM operators WHERE lower(email) = lower($1) LIMIT 1
    `
	err := r.DB.GetContext(ctx, &op, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &op, nil
}

func (r *PGRepository) Create(ctx context.Context, op *model.Operator) error {
	query := `
        INSERT INTO operators (id, email, name, password_hash, role, is_active, created_at, updated_at)
        VALUES (:id, :email, :name, :password_hash, :role, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, op)
	return err
}
