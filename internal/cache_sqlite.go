package internal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

//go:embed sql/cache_get.sql
var cacheGetSQL string

//go:embed sql/cache_put.sql
var cachePutSQL string

// SQLiteStore persists responses in a SQLite file so they survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the store named name inside dir.
func OpenSQLiteStore(dir, name string, logger zerolog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	db, err := OpenDatabase(filepath.Join(dir, name+".sqlite"), CacheMigrations, logger)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*CachedResponse, bool, error) {
	var resp CachedResponse
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx, cacheGetSQL, key).Scan(&resp.StatusCode, &resp.Body, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached response: %w", err)
	}
	resp.FetchedAt = time.Unix(0, fetchedAt)
	return &resp, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, resp *CachedResponse, _ time.Duration) error {
	_, err := s.db.ExecContext(ctx, cachePutSQL, key, resp.StatusCode, resp.Body, resp.FetchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store cached response: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
