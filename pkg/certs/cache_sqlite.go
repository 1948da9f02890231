package certs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // "sqlite3" driver (cgo)
	"golang.org/x/crypto/acme/autocert"
	_ "modernc.org/sqlite" // "sqlite" driver (pure Go)
)

// Supported database/sql driver names for SQLiteCache.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// SQLiteCache implements autocert.Cache on a single SQLite table.
type SQLiteCache struct {
	db *sql.DB

	getStmt    *sql.Stmt
	putStmt    *sql.Stmt
	deleteStmt *sql.Stmt
}

var _ autocert.Cache = (*SQLiteCache)(nil)

// NewSQLiteCache opens (creating if needed) the cache database at path
// using driver, which is DriverModernc or DriverMattn.
func NewSQLiteCache(driver, path string) (*SQLiteCache, error) {
	if path == "" {
		return nil, errors.New("sqlite cache path cannot be empty")
	}
	switch driver {
	case DriverModernc, DriverMattn:
	default:
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	c := &SQLiteCache{db: db}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := c.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) initSchema() error {
	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS autocert_cache (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
	} {
		if _, err := c.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *SQLiteCache) prepareStatements() error {
	var err error

	c.getStmt, err = c.db.Prepare(`SELECT data FROM autocert_cache WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("prepare get: %w", err)
	}

	c.putStmt, err = c.db.Prepare(`
		INSERT INTO autocert_cache (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("prepare put: %w", err)
	}

	c.deleteStmt, err = c.db.Prepare(`DELETE FROM autocert_cache WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}

	return nil
}

// Get returns the data stored under key, or autocert.ErrCacheMiss.
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := c.getStmt.QueryRowContext(ctx, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, autocert.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite cache get %q: %w", key, err)
	}
	return data, nil
}

// Put stores data under key, replacing any previous value.
func (c *SQLiteCache) Put(ctx context.Context, key string, data []byte) error {
	if _, err := c.putStmt.ExecContext(ctx, key, data, time.Now().Unix()); err != nil {
		return fmt.Errorf("sqlite cache put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if _, err := c.deleteStmt.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("sqlite cache delete %q: %w", key, err)
	}
	return nil
}

// Close releases the statements and the database handle.
func (c *SQLiteCache) Close() error {
	for _, stmt := range []*sql.Stmt{c.getStmt, c.putStmt, c.deleteStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return c.db.Close()
}
