// Package store provides read-only access to the order/product SQLite
// database. Every tool call acquires a dedicated connection and releases it
// on all exit paths; no connection state is shared between calls.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database handle.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the SQLite database at path and verifies the connection.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping failed: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Acquire checks a dedicated connection out of the pool. The caller must
// release it with Conn.Close on every exit path.
func (s *Store) Acquire(ctx context.Context) (*Conn, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Conn{conn: conn, logger: s.logger}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Conn is a single scoped database connection serving one tool call.
type Conn struct {
	conn   *sql.Conn
	logger *slog.Logger
}

// Close returns the connection to the pool.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Timestamp layouts seen in the store. The seeding process writes
// second-precision DATETIME text; older rows may carry fractional seconds
// or an RFC3339 suffix.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	time.RFC3339,
	"2006-01-02",
}

// parseTime parses a created_at column value. Zero time for empty or
// unparseable values rather than an error: a bad timestamp should not sink
// an otherwise valid report.
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// windowModifier renders a trailing window of days as a SQLite datetime
// modifier, bound as a parameter to datetime('now', ?).
func windowModifier(days int) string {
	return fmt.Sprintf("-%d days", days)
}
