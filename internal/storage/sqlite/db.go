// ABOUTME: SQLite connection lifecycle with lazy open and liveness probing
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// ErrClosed is returned when the handle was closed by its owner
var ErrClosed = errors.New("database is closed")

// durableOnce makes the durability request happen once per process
var durableOnce sync.Once

// DB owns the process-wide SQLite handle.
// The handle is opened on first use and re-validated before every reuse,
// because the host may tear it down without telling us.
type DB struct {
	mu     sync.Mutex
	conn   *sql.DB
	path   string
	closed bool
	logger *zap.Logger
}

// DefaultDataDir returns the default data directory following the XDG base directory layout
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "oogvault")
}

// DefaultDBPath returns the default database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "oogvault.db")
}

// NewDB creates a handle for path without touching the filesystem
func NewDB(path string, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{path: path, logger: logger}
}

// Open opens or creates a SQLite database at the given path
func Open(path string, logger *zap.Logger) (*DB, error) {
	db := NewDB(path, logger)
	if _, err := db.Conn(context.Background()); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenInMemory creates an in-memory SQLite database (for testing).
// Reopening an in-memory handle starts from an empty database.
func OpenInMemory() (*DB, error) {
	return Open(memoryPath, nil)
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Conn returns a live connection, opening or reopening it as needed
func (db *DB) Conn(ctx context.Context) (*sql.DB, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil, ErrClosed
	}

	if db.conn != nil {
		if db.alive(ctx) {
			return db.conn, nil
		}
		db.logger.Warn("stale database handle, reconnecting", zap.String("path", db.path))
		_ = db.conn.Close()
		db.conn = nil
	}

	conn, err := db.open(ctx)
	if err != nil {
		return nil, err
	}
	db.conn = conn

	durableOnce.Do(func() { db.requestDurability(ctx, conn) })

	db.logger.Info("database connection opened", zap.String("path", db.path))
	return conn, nil
}

// Invalidate drops the cached handle so the next call reopens it
func (db *DB) Invalidate() {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.conn != nil {
		_ = db.conn.Close()
		db.conn = nil
	}
}

// Close closes the connection; later calls fail with ErrClosed
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.closed = true
	if db.conn == nil {
		return nil
	}
	err := db.conn.Close()
	db.conn = nil
	return err
}

func (db *DB) open(ctx context.Context) (*sql.DB, error) {
	dsn := memoryPath + "?_pragma=foreign_keys(ON)"
	if db.path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(db.path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dsn = db.path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection: writes are serialized and :memory: stays one database
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, Schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return conn, nil
}

// alive probes the cached handle. A failure means reconnect, never an error.
func (db *DB) alive(ctx context.Context) bool {
	if db.path != memoryPath {
		if _, err := os.Stat(db.path); err != nil {
			return false
		}
	}
	if err := db.conn.PingContext(ctx); err != nil {
		return false
	}
	var name string
	err := db.conn.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'conversations'").Scan(&name)
	return err == nil
}

// requestDurability asks SQLite for full fsync. Failure is not fatal.
func (db *DB) requestDurability(ctx context.Context, conn *sql.DB) {
	if _, err := conn.ExecContext(ctx, "PRAGMA synchronous = FULL"); err != nil {
		db.logger.Info("durable storage request failed", zap.Error(err))
		return
	}
	var level int
	if err := conn.QueryRowContext(ctx, "PRAGMA synchronous").Scan(&level); err != nil {
		db.logger.Info("durable storage request unverified", zap.Error(err))
		return
	}
	db.logger.Info("durable storage requested", zap.Bool("granted", level >= 2))
}
