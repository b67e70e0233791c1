package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Operation names recorded in the trail.
const (
	OpSubmitMarket = "submit_market"
	OpSubmitLimit  = "submit_limit"
	OpCancel       = "cancel"
)

// Entry is one order attempt and its outcome. The trail is append-only and
// records failures the same as successes; within one orchestrator instance
// record order matches call order.
type Entry struct {
	ID        string          `json:"id"`
	Time      time.Time       `json:"time"`
	Operation string          `json:"operation"`
	Symbol    string          `json:"symbol"`
	Params    json.RawMessage `json:"params"`
	Outcome   string          `json:"outcome"` // accepted / rejected / failed
	Error     string          `json:"error,omitempty"`
	OrderID   int64           `json:"order_id,omitempty"`
}

// Outcome values.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Log is the durable audit trail backed by SQLite. Insert-only: there is no
// update or delete path.
type Log struct {
	db *sql.DB
}

// Open creates (or opens) the audit database and runs the schema.
func Open(dbPath string) (*Log, error) {
	if dbPath == "" {
		return nil, errors.New("audit: db path is required")
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir audit dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite behaves best on a single connection
	db.SetMaxIdleConns(1)

	l := &Log{db: db}
	if err := l.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Log) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`
CREATE TABLE IF NOT EXISTS order_attempts (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  ts TEXT NOT NULL,
  operation TEXT NOT NULL,
  symbol TEXT NOT NULL,
  params TEXT NOT NULL,
  outcome TEXT NOT NULL,
  error TEXT NOT NULL DEFAULT '',
  order_id INTEGER NOT NULL DEFAULT 0
);`,
		`CREATE INDEX IF NOT EXISTS idx_order_attempts_ts ON order_attempts(ts);`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("audit migrate: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record appends one entry. ID and Time are filled in when absent.
func (l *Log) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	params := entry.Params
	if params == nil {
		params = json.RawMessage(`{}`)
	}

	_, err := l.db.ExecContext(ctx, `
INSERT INTO order_attempts (id,ts,operation,symbol,params,outcome,error,order_id)
VALUES (?,?,?,?,?,?,?,?)
`, entry.ID, entry.Time.Format(time.RFC3339Nano), entry.Operation, entry.Symbol,
		string(params), entry.Outcome, entry.Error, entry.OrderID)
	if err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	return nil
}

// Recent returns the latest entries in insertion order (oldest first).
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx, `
SELECT id,ts,operation,symbol,params,outcome,error,order_id
FROM (
  SELECT * FROM order_attempts ORDER BY seq DESC LIMIT ?
) ORDER BY seq ASC
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts, params string
		if err := rows.Scan(&e.ID, &ts, &e.Operation, &e.Symbol, &params, &e.Outcome, &e.Error, &e.OrderID); err != nil {
			return nil, err
		}
		e.Time, _ = time.Parse(time.RFC3339Nano, ts)
		e.Params = json.RawMessage(params)
		out = append(out, e)
	}
	return out, rows.Err()
}
