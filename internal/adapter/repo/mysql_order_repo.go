package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)

const orderColumns = `id, customer_id, customer_cpf, items_json, status, payment_status, created_at, updated_at`

func (r *MySQLOrderRepo) Save(ctx context.Context, o *entity.Order) error {
	items, err := json.Marshal(o.Items())
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO orders (id, customer_id, customer_cpf, items_json, status, payment_status, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?)`,
		o.ID(), nullable(o.CustomerID()), nullable(o.CustomerCPF()), items,
		string(o.Status()), string(o.PaymentStatus()), o.CreatedAt(), o.UpdatedAt(),
	)
	return err
}

func (r *MySQLOrderRepo) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrOrderNotFound
	}
	return o, err
}

func (r *MySQLOrderRepo) FindAll(ctx context.Context) ([]*entity.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at`)
}

func (r *MySQLOrderRepo) FindByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	return r.query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status = ? ORDER BY created_at`, string(status))
}

func (r *MySQLOrderRepo) FindByCustomer(ctx context.Context, customerID string) ([]*entity.Order, error) {
	return r.query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = ? ORDER BY created_at`, customerID)
}

// UpdateStatusIf is a compare-and-swap: zero affected rows on an
// existing order means a concurrent writer changed it first.
func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id string, from, to entity.OrderStatus, at time.Time) (bool, error) {
	return r.casUpdate(ctx, id, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), at, id, string(from))
}

func (r *MySQLOrderRepo) UpdatePaymentStatusIf(ctx context.Context, id string, from, to entity.PaymentStatus, at time.Time) (bool, error) {
	return r.casUpdate(ctx, id, `UPDATE orders SET payment_status = ?, updated_at = ? WHERE id = ? AND payment_status = ?`,
		string(to), at, id, string(from))
}

func (r *MySQLOrderRepo) casUpdate(ctx context.Context, id, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows > 0 {
		return true, nil
	}

	// Nothing matched: missing row vs lost race.
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, usecase.ErrOrderNotFound
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

func (r *MySQLOrderRepo) query(ctx context.Context, q string, args ...any) ([]*entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var (
		id, status, paymentStatus string
		customerID, customerCPF   sql.NullString
		itemsJSON                 []byte
		createdAt, updatedAt      time.Time
	)
	if err := row.Scan(&id, &customerID, &customerCPF, &itemsJSON, &status, &paymentStatus, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var items []entity.OrderItem
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return nil, fmt.Errorf("unmarshal items for order %s: %w", id, err)
	}

	return entity.RestoreOrder(
		id, customerID.String, customerCPF.String, items,
		entity.OrderStatus(status), entity.PaymentStatus(paymentStatus),
		createdAt, updatedAt,
	)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
