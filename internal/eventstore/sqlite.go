package eventstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens or creates the database at dbPath. Use ":memory:" for a
// throwaway store; parent directories of a file path are created.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, wrapStoreError(ErrDatabaseOpenFailed, err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, wrapStoreError(ErrDatabaseOpenFailed, err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, wrapStoreError(ErrInitializeSchemaFailed, err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_build_id ON events(build_id);
	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append inserts e. Timestamps are stored with millisecond precision.
func (s *SQLiteStore) Append(ctx context.Context, e Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Payload == nil {
		e.Payload = []byte("{}")
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO events (build_id, event_type, timestamp, payload) VALUES (?, ?, ?, ?)",
		e.BuildID, e.Type, e.Timestamp.UnixMilli(), []byte(e.Payload),
	)
	if err != nil {
		return e, wrapStoreError(ErrEventAppendFailed, err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return e, wrapStoreError(ErrEventAppendFailed, err)
	}
	e.Timestamp = time.UnixMilli(e.Timestamp.UnixMilli())
	return e, nil
}

// ByBuild returns the events of one build.
func (s *SQLiteStore) ByBuild(ctx context.Context, buildID string) ([]Event, error) {
	return s.query(ctx,
		"SELECT id, build_id, event_type, timestamp, payload FROM events WHERE build_id = ? ORDER BY id",
		buildID,
	)
}

// Range returns events inside [start, end].
func (s *SQLiteStore) Range(ctx context.Context, start, end time.Time) ([]Event, error) {
	return s.query(ctx,
		"SELECT id, build_id, event_type, timestamp, payload FROM events WHERE timestamp >= ? AND timestamp <= ? ORDER BY id",
		start.UnixMilli(), end.UnixMilli(),
	)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrapStoreError(ErrEventQueryFailed, err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var (
			e  Event
			ms int64
			pl []byte
		)
		if err := rows.Scan(&e.ID, &e.BuildID, &e.Type, &ms, &pl); err != nil {
			return nil, wrapStoreError(ErrEventQueryFailed, err)
		}
		e.Timestamp = time.UnixMilli(ms)
		e.Payload = pl
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(ErrEventQueryFailed, err)
	}
	return events, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
