// Package cache persists fetched loan tables in a local SQLite file so
// repeated dashboard queries do not replay against the upstream data
// browser. Entries are keyed by the fetch query and swept by age.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS fetch_cache (
	key        TEXT PRIMARY KEY,
	year       INTEGER NOT NULL,
	states     TEXT NOT NULL DEFAULT '',
	msamds     TEXT NOT NULL DEFAULT '',
	payload    BLOB NOT NULL,
	fetched_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fetch_cache_fetched_at ON fetch_cache(fetched_at);
`

// Entry is one cached fetch payload.
type Entry struct {
	Key       string
	Year      int
	States    string
	MSAMDs    string
	Payload   []byte
	FetchedAt time.Time
}

// Store is a SQLite-backed cache of raw fetch payloads.
type Store struct {
	db *sql.DB
}

// Open opens the cache database at path, creating the schema if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, WrapStoreError("open", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, WrapStoreError("init schema", err)
	}
	return &Store{db: db}, nil
}

// Get returns the cached payload for key. A miss is (nil, false, nil).
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, errStoreClosed
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM fetch_cache WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, WrapStoreError("get", err)
	}
	return payload, true, nil
}

// Put stores an entry, replacing any previous payload under the same key.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if s == nil || s.db == nil {
		return errStoreClosed
	}
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO fetch_cache (key, year, states, msamds, payload, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Key, e.Year, e.States, e.MSAMDs, e.Payload, e.FetchedAt)
	return WrapStoreError("put", err)
}

// Delete removes one entry. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil || s.db == nil {
		return errStoreClosed
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM fetch_cache WHERE key = ?`, key)
	return WrapStoreError("delete", err)
}

// Sweep evicts entries fetched before the cutoff and reports how many went.
func (s *Store) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, errStoreClosed
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM fetch_cache WHERE fetched_at < ?`, olderThan)
	if err != nil {
		return 0, WrapStoreError("sweep", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, WrapStoreError("sweep", err)
	}
	return int(n), nil
}

// Count returns the number of cached entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, errStoreClosed
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fetch_cache`).Scan(&n)
	if err != nil {
		return 0, WrapStoreError("count", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
