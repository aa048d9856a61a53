package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/totostore/storefront/internal/domain"
	"github.com/totostore/storefront/internal/store"
)

// ProductRepo is the SQLite implementation of store.ProductRepository.
type ProductRepo struct {
	db *sql.DB
}

const productColumns = `id, name, description, price, image_url, category, stock`

// List returns the whole catalog.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY id`
	return r.query(ctx, q)
}

// ListByCategory filters the catalog by case-insensitive category match.
func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE LOWER(category) = LOWER(?) ORDER BY id`
	return r.query(ctx, q, category)
}

// Get returns one product or store.ErrNotFound.
func (r *ProductRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get product %d: %w", id, err)
	}
	return p, nil
}

// Create inserts a product and assigns its id.
func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	const q = `
		INSERT INTO products (name, description, price, image_url, category, stock)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price.String(), p.ImageURL, p.Category, p.Stock)
	if err != nil {
		return fmt.Errorf("sqlite: create product %q: %w", p.Name, err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: create product %q: %w", p.Name, err)
	}
	return nil
}

// Update overwrites all mutable fields of an existing product.
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	const q = `
		UPDATE products
		SET    name = ?, description = ?, price = ?, image_url = ?, category = ?, stock = ?
		WHERE  id = ?`

	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price.String(), p.ImageURL, p.Category, p.Stock, p.ID)
	if err != nil {
		return fmt.Errorf("sqlite: update product %d: %w", p.ID, err)
	}
	return requireRow(res, store.ErrNotFound)
}

// Delete removes a product from the catalog. Existing order items keep their
// snapshot of it.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete product %d: %w", id, err)
	}
	return requireRow(res, store.ErrNotFound)
}

// Count returns the catalog size.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM products`)
}

func (r *ProductRepo) query(ctx context.Context, q string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list products: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	return products, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.ImageURL, &p.Category, &p.Stock); err != nil {
		return nil, err
	}
	var err error
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	return &p, nil
}
