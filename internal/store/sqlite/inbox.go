// Package sqlite keeps contact form submissions in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    message TEXT NOT NULL,
    delivered INTEGER NOT NULL DEFAULT 0,
    delivery_error TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at);
`

// Inbox is the SQLite-backed message log.
type Inbox struct {
	db *sql.DB
}

// Open opens (or creates) the inbox database at path and applies the schema.
func Open(ctx context.Context, path string) (*Inbox, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create inbox dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open inbox: %w", err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate inbox: %w", err)
	}

	return &Inbox{db: db}, nil
}

// Record stores one submission.
func (i *Inbox) Record(ctx context.Context, m domain.ContactMessage) error {
	_, err := i.db.ExecContext(ctx,
		`INSERT INTO messages (id, name, email, message, delivered, delivery_error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Message, boolToInt(m.Delivered), m.DeliveryError, m.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record message: %w", err)
	}
	return nil
}

// List returns the most recent messages first, at most limit of them.
func (i *Inbox) List(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := i.db.QueryContext(ctx,
		`SELECT id, name, email, message, delivered, delivery_error, created_at
		 FROM messages ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.ContactMessage{}
	for rows.Next() {
		var (
			m         domain.ContactMessage
			delivered int
			created   int64
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &delivered, &m.DeliveryError, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Delivered = delivered != 0
		m.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}

// Count returns the number of stored messages.
func (i *Inbox) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

// DeleteOlderThan removes messages created before cutoff and reports how many went.
func (i *Inbox) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := i.db.ExecContext(ctx, `DELETE FROM messages WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete old messages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// Ping checks the database handle.
func (i *Inbox) Ping(ctx context.Context) error {
	return i.db.PingContext(ctx)
}

func (i *Inbox) Close() error {
	return i.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
