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

// OrderRepo is the SQLite implementation of store.OrderRepository.
type OrderRepo struct {
	db *sql.DB
}

const orderColumns = `id, customer_name, customer_email, customer_phone,
	shipping_address, total_amount, status, call_status, call_payload, created_at`

// Create persists an order and its line items in one transaction.
// Item ids are assigned on the way out.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: create order %q: %w", o.ID, err)
	}
	defer tx.Rollback()

	const insertOrder = `
		INSERT INTO orders (id, customer_name, customer_email, customer_phone,
			shipping_address, total_amount, status, call_status, call_payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, insertOrder,
		o.ID, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.ShippingAddress, o.TotalAmount.String(), o.Status, o.CallStatus,
		o.CallPayload, formatTime(o.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: create order %q: %w", o.ID, err)
	}

	const insertItem = `
		INSERT INTO order_items (order_id, product_id, product_name, price, quantity, image_url)
		VALUES (?, ?, ?, ?, ?, ?)`

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		res, err := tx.ExecContext(ctx, insertItem,
			o.ID, item.ProductID, item.ProductName, item.Price.String(),
			item.Quantity, item.ImageURL)
		if err != nil {
			return fmt.Errorf("sqlite: create order %q items: %w", o.ID, err)
		}
		if item.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("sqlite: create order %q items: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: create order %q: %w", o.ID, err)
	}
	return nil
}

// Get returns one order with its items, or store.ErrNotFound.
func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %q: %w", id, err)
	}
	if o.Items, err = r.itemsFor(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

// List returns all orders, newest first, items included.
func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`
	return r.query(ctx, q)
}

// ListByStatus filters by case-insensitive exact status match.
func (r *OrderRepo) ListByStatus(ctx context.Context, status string) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders
		WHERE LOWER(status) = LOWER(?) ORDER BY created_at DESC, id DESC`
	return r.query(ctx, q, status)
}

// Recent returns the n newest orders, items included.
func (r *OrderRepo) Recent(ctx context.Context, n int) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders
		ORDER BY created_at DESC, id DESC LIMIT ?`
	return r.query(ctx, q, n)
}

// UpdateStatus writes the status verbatim. Any string is accepted; the
// status column is not an enum.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.update(ctx, id, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
}

// UpdateCallStatus writes only the call-status text.
func (r *OrderRepo) UpdateCallStatus(ctx context.Context, id, callStatus string) error {
	return r.update(ctx, id, `UPDATE orders SET call_status = ? WHERE id = ?`, callStatus, id)
}

// UpdateCallDispatch records a dispatch outcome together with the payload
// echo the delivery webhook will correlate on.
func (r *OrderRepo) UpdateCallDispatch(ctx context.Context, id, callStatus, callPayload string) error {
	return r.update(ctx, id,
		`UPDATE orders SET call_status = ?, call_payload = ? WHERE id = ?`,
		callStatus, callPayload, id)
}

// UpdateConfirmation applies a webhook-driven transition: status and
// call-status in a single write, so a replayed event re-applies the same
// values idempotently.
func (r *OrderRepo) UpdateConfirmation(ctx context.Context, id, status, callStatus string) error {
	return r.update(ctx, id,
		`UPDATE orders SET status = ?, call_status = ? WHERE id = ?`,
		status, callStatus, id)
}

// Delete removes the order; the items FK cascades.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete order %q: %w", id, err)
	}
	return requireRow(res, store.ErrNotFound)
}

// Count returns the total number of orders.
func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM orders`)
}

// CountByStatus counts orders with an exact status value.
func (r *OrderRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM orders WHERE status = ?`, status)
}

// ConfirmedRevenue sums the totals of Confirmed orders. The summation happens
// in Go with decimals; SQLite SUM over the TEXT column would coerce to float.
func (r *OrderRepo) ConfirmedRevenue(ctx context.Context) (decimal.Decimal, error) {
	const q = `SELECT total_amount FROM orders WHERE status = ?`

	rows, err := r.db.QueryContext(ctx, q, domain.StatusConfirmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sqlite: confirmed revenue: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("sqlite: confirmed revenue: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("sqlite: confirmed revenue: parse %q: %w", amount, err)
		}
		total = total.Add(d)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("sqlite: confirmed revenue: %w", err)
	}
	return total, nil
}

func (r *OrderRepo) update(ctx context.Context, id, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("sqlite: update order %q: %w", id, err)
	}
	return requireRow(res, store.ErrNotFound)
}

func (r *OrderRepo) query(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list orders: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = r.itemsFor(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepo) itemsFor(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
		SELECT id, order_id, product_id, product_name, price, quantity, image_url
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY id`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: items for order %q: %w", orderID, err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var it domain.OrderItem
		var price string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&price, &it.Quantity, &it.ImageURL); err != nil {
			return nil, fmt.Errorf("sqlite: items for order %q: %w", orderID, err)
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("sqlite: items for order %q: parse price %q: %w", orderID, price, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: items for order %q: %w", orderID, err)
	}
	return items, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var total, createdAt string
	err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.ShippingAddress, &total, &o.Status, &o.CallStatus, &o.CallPayload, &createdAt)
	if err != nil {
		return nil, err
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse total %q: %w", total, err)
	}
	if o.CreatedAt, err = parseRFC3339(createdAt); err != nil {
		return nil, err
	}
	return &o, nil
}
