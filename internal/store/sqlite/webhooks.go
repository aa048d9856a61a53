package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/totostore/storefront/internal/domain"
)

// WebhookLogRepo is the SQLite implementation of store.WebhookLogRepository.
// The table is append-only; Clear exists only for the demo/debug endpoint.
type WebhookLogRepo struct {
	db *sql.DB
}

// Append inserts one audit row.
func (r *WebhookLogRepo) Append(ctx context.Context, l *domain.WebhookLog) error {
	const q = `INSERT INTO webhook_logs (id, type, payload, received_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q, l.ID, l.Type, l.Payload, formatTime(l.ReceivedAt))
	if err != nil {
		return fmt.Errorf("sqlite: append webhook log %q: %w", l.ID, err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (r *WebhookLogRepo) List(ctx context.Context, limit int) ([]domain.WebhookLog, error) {
	const q = `
		SELECT id, type, payload, received_at
		FROM   webhook_logs
		ORDER  BY received_at DESC, id DESC
		LIMIT  ?`

	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list webhook logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.WebhookLog
	for rows.Next() {
		var l domain.WebhookLog
		var receivedAt string
		if err := rows.Scan(&l.ID, &l.Type, &l.Payload, &receivedAt); err != nil {
			return nil, fmt.Errorf("sqlite: list webhook logs: %w", err)
		}
		if l.ReceivedAt, err = parseRFC3339(receivedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list webhook logs: %w", err)
	}
	return logs, nil
}

// Clear removes all audit rows.
func (r *WebhookLogRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM webhook_logs`); err != nil {
		return fmt.Errorf("sqlite: clear webhook logs: %w", err)
	}
	return nil
}
