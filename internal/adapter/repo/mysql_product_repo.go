package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

type MySQLProductRepo struct{ db *sql.DB }

func NewMySQLProductRepo(db *sql.DB) *MySQLProductRepo { return &MySQLProductRepo{db: db} }

var _ usecase.ProductRepo = (*MySQLProductRepo)(nil)

func (r *MySQLProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO products (id, name, description, price, category, image_url)
VALUES (?,?,?,?,?,?)`,
		p.ID, p.Name, p.Description, p.Price.StringFixed(2), string(p.Category), nullable(p.ImageURL),
	)
	return err
}

func (r *MySQLProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products SET name = ?, description = ?, price = ?, category = ?, image_url = ?
WHERE id = ?`,
		p.Name, p.Description, p.Price.StringFixed(2), string(p.Category), nullable(p.ImageURL), p.ID,
	)
	if err != nil {
		return err
	}
	return requireProductRow(res, p.ID)
}

func (r *MySQLProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireProductRow(res, id)
}

func (r *MySQLProductRepo) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, description, price, category, image_url
FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &usecase.ProductNotFoundError{ID: id}
	}
	return p, err
}

func (r *MySQLProductRepo) FindByCategory(ctx context.Context, category entity.ProductCategory) ([]*entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description, price, category, image_url
FROM products WHERE category = ? ORDER BY name`, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		p        entity.Product
		price    string
		category string
		imageURL sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &category, &imageURL); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price for product %s: %w", p.ID, err)
	}
	p.Price = d
	p.Category = entity.ProductCategory(category)
	p.ImageURL = imageURL.String
	return &p, nil
}

func requireProductRow(res sql.Result, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &usecase.ProductNotFoundError{ID: id}
	}
	return nil
}
