package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

type MySQLCustomerRepo struct{ db *sql.DB }

func NewMySQLCustomerRepo(db *sql.DB) *MySQLCustomerRepo { return &MySQLCustomerRepo{db: db} }

var _ usecase.CustomerRepo = (*MySQLCustomerRepo)(nil)

func (r *MySQLCustomerRepo) Save(ctx context.Context, c *entity.Customer) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO customers (id, name, cpf, email, created_at, updated_at)
VALUES (?,?,?,?,?,?)`,
		c.ID, nullable(c.Name), nullable(c.CPF), nullable(c.Email), c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *MySQLCustomerRepo) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.findOne(ctx, `WHERE id = ?`, id)
}

func (r *MySQLCustomerRepo) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return r.findOne(ctx, `WHERE email = ?`, email)
}

func (r *MySQLCustomerRepo) FindByCPF(ctx context.Context, cpf string) (*entity.Customer, error) {
	return r.findOne(ctx, `WHERE cpf = ?`, cpf)
}

func (r *MySQLCustomerRepo) findOne(ctx context.Context, where string, arg any) (*entity.Customer, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, cpf, email, created_at, updated_at FROM customers `+where, arg)

	var (
		c                entity.Customer
		name, cpf, email sql.NullString
	)
	err := row.Scan(&c.ID, &name, &cpf, &email, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Name, c.CPF, c.Email = name.String, cpf.String, email.String
	return &c, nil
}
