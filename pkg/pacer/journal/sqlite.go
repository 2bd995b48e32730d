package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements Store using SQLite for durable journal storage.
type SQLiteStore struct {
	db *sql.DB
}

// SQLiteStoreConfig configures the SQLite journal store.
type SQLiteStoreConfig struct {
	// Path is the path to the SQLite database file.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStore creates a SQLite journal store with default settings.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{Path: path})
}

// NewSQLiteStoreWithConfig creates a SQLite journal store with custom configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		id TEXT NOT NULL PRIMARY KEY,
		limiter TEXT NOT NULL,
		decision TEXT NOT NULL,
		waited_ns INTEGER NOT NULL,
		operations_today INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_decisions_limiter ON decisions(limiter);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Append persists one entry.
func (s *SQLiteStore) Append(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (id, limiter, decision, waited_ns, operations_today, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Limiter,
		string(entry.Decision),
		entry.Waited.Nanoseconds(),
		entry.OperationsToday,
		entry.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, limiter, decision, waited_ns, operations_today, timestamp
		FROM decisions
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			entry    Entry
			decision string
			waitedNs int64
			tsNs     int64
		)
		if err := rows.Scan(&entry.ID, &entry.Limiter, &decision, &waitedNs, &entry.OperationsToday, &tsNs); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entry.Decision = Decision(decision)
		entry.Waited = time.Duration(waitedNs)
		entry.Timestamp = time.Unix(0, tsNs)
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decisions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return count, nil
}

// Prune deletes entries older than the cutoff.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM decisions WHERE timestamp < ?`, olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}
	return result.RowsAffected()
}

// TrimTo deletes the oldest entries until at most max remain.
func (s *SQLiteStore) TrimTo(ctx context.Context, max int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM decisions WHERE id NOT IN (
			SELECT id FROM decisions ORDER BY timestamp DESC, id DESC LIMIT ?
		)`, max)
	if err != nil {
		return 0, fmt.Errorf("failed to trim journal: %w", err)
	}
	return result.RowsAffected()
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
