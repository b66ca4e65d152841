package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"ptr89/internal/domain"
	"ptr89/internal/search"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its settings in package globals.
var migrateMu sync.Mutex

// Cache implements [domain.ResultCache] backed by SQLite.
type Cache struct {
	DB *sql.DB
}

var _ domain.ResultCache = (*Cache)(nil)

// OpenCache opens the SQLite database at dsn and runs all pending
// migrations. Use ":memory:" for a throwaway cache.
func OpenCache(ctx context.Context, dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: an in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{DB: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (c *Cache) Close() error { return c.DB.Close() }

func (c *Cache) Get(ctx context.Context, key domain.CacheKey) ([]search.Result, bool, error) {
	row := c.DB.QueryRowContext(ctx,
		`SELECT results FROM results
		 WHERE digest = ? AND base = ? AND align = ? AND pattern = ? AND max_count = ?`,
		key.Digest, int64(key.Base), key.Align, key.Pattern, key.Limit,
	)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached results: %w", err)
	}

	var results []search.Result
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached results: %w", err)
	}
	return results, true, nil
}

func (c *Cache) Put(ctx context.Context, key domain.CacheKey, results []search.Result) error {
	if results == nil {
		results = []search.Result{}
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	_, err = c.DB.ExecContext(ctx,
		`INSERT OR REPLACE INTO results (digest, base, align, pattern, max_count, results)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key.Digest, int64(key.Base), key.Align, key.Pattern, key.Limit, string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert results: %w", err)
	}
	return nil
}
