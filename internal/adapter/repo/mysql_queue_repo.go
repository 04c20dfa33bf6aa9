package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

type MySQLQueueRepo struct{ db *sql.DB }

func NewMySQLQueueRepo(db *sql.DB) *MySQLQueueRepo { return &MySQLQueueRepo{db: db} }

var _ usecase.QueueRepo = (*MySQLQueueRepo)(nil)

// CreateIfAbsent relies on the unique key on order_id, so a checkout
// retry after a partial failure cannot duplicate the entry.
func (r *MySQLQueueRepo) CreateIfAbsent(ctx context.Context, e *entity.QueueEntry) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO order_queue (id, order_id, status, created_at, updated_at)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE order_id = order_id`,
		e.ID, e.OrderID, string(e.Status), e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *MySQLQueueRepo) FindByOrderID(ctx context.Context, orderID string) (*entity.QueueEntry, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, order_id, status, created_at, updated_at
FROM order_queue WHERE order_id = ?`, orderID)
	e, err := scanQueueEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrQueueNotFound
	}
	return e, err
}

func (r *MySQLQueueRepo) UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE order_queue SET status = ?, updated_at = ? WHERE order_id = ?`,
		string(status), at, orderID,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return usecase.ErrQueueNotFound
	}
	return nil
}

func (r *MySQLQueueRepo) FindByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.QueueEntry, error) {
	return r.query(ctx, `
SELECT id, order_id, status, created_at, updated_at
FROM order_queue WHERE status = ? ORDER BY created_at`, string(status))
}

func (r *MySQLQueueRepo) FindAll(ctx context.Context) ([]*entity.QueueEntry, error) {
	return r.query(ctx, `
SELECT id, order_id, status, created_at, updated_at
FROM order_queue ORDER BY created_at`)
}

func (r *MySQLQueueRepo) query(ctx context.Context, q string, args ...any) ([]*entity.QueueEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.QueueEntry
	for rows.Next() {
		e, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanQueueEntry(row rowScanner) (*entity.QueueEntry, error) {
	var (
		e      entity.QueueEntry
		status string
	)
	if err := row.Scan(&e.ID, &e.OrderID, &status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = entity.OrderStatus(status)
	return &e, nil
}
