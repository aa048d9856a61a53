// Package sqlite provides the SQLite-backed implementation of the store ports.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa: webhook deliveries write while the admin dashboard reads.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, so tests can open real database files
	// and the binary cross-compiles without a C toolchain.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Idempotent via IF NOT EXISTS.
//
// Money columns are TEXT holding decimal strings: SQLite has no decimal type
// and REAL would lose cents. Timestamps are RFC3339 TEXT, the SQLite idiom.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT    NOT NULL,
    description TEXT    NOT NULL DEFAULT '',
    price       TEXT    NOT NULL,
    image_url   TEXT    NOT NULL DEFAULT '',
    category    TEXT    NOT NULL DEFAULT '',
    stock       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS orders (
    id               TEXT PRIMARY KEY,
    customer_name    TEXT NOT NULL,
    customer_email   TEXT NOT NULL DEFAULT '',
    customer_phone   TEXT NOT NULL,
    shipping_address TEXT NOT NULL DEFAULT '',
    total_amount     TEXT NOT NULL,
    status           TEXT NOT NULL,
    call_status      TEXT NOT NULL DEFAULT '',
    call_payload     TEXT NOT NULL DEFAULT '',
    created_at       TEXT NOT NULL
);

-- Line items are a denormalised snapshot owned by their order.
-- ON DELETE CASCADE keeps order deletion a single statement.
CREATE TABLE IF NOT EXISTS order_items (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id     TEXT    NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id   INTEGER NOT NULL,
    product_name TEXT    NOT NULL,
    price        TEXT    NOT NULL,
    quantity     INTEGER NOT NULL,
    image_url    TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

-- Append-only webhook audit log. Deliberately no FK to orders: correlation
-- happens at processing time, unmatched payloads are still kept.
CREATE TABLE IF NOT EXISTS webhook_logs (
    id          TEXT PRIMARY KEY,
    type        TEXT NOT NULL,
    payload     TEXT NOT NULL,
    received_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_webhook_logs_received_at ON webhook_logs(received_at);
`

// Store owns the SQLite database and hands out per-entity repositories.
type Store struct {
	db *sql.DB

	products *ProductRepo
	orders   *OrderRepo
	webhooks *WebhookLogRepo
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	st, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Store, error) {
	// The pure-Go driver takes _pragma query parameters for per-connection
	// state. WAL enables concurrent readers. foreign_keys=on is required
	// for the order_items cascade. busy_timeout waits for locks instead of
	// failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	s := &Store{db: db}
	s.products = &ProductRepo{db: db}
	s.orders = &OrderRepo{db: db}
	s.webhooks = &WebhookLogRepo{db: db}
	return s, nil
}

// Close releases the database connection. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

// Products returns the catalog repository.
func (s *Store) Products() *ProductRepo { return s.products }

// Orders returns the order repository.
func (s *Store) Orders() *OrderRepo { return s.orders }

// WebhookLogs returns the webhook audit repository.
func (s *Store) WebhookLogs() *WebhookLogRepo { return s.webhooks }

type rowScanner interface {
	Scan(dest ...any) error
}

func countRows(ctx context.Context, db *sql.DB, query string, args ...any) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count: %w", err)
	}
	return n, nil
}

// requireRow maps "zero rows affected" to notFound.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
