// Package sqlite implements database.Reader for SQLite on top of
// database/sql.
//
// Two driver implementations are supported, selected at build time:
//
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - With -tags cgo_sqlite:   mattn/go-sqlite3 (requires CGO_ENABLED=1)
//
// Use New() instead of sql.Open() so the correct registered driver and DSN
// dialect are used.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sqlens/sqlens/internal/database"
	"github.com/sqlens/sqlens/internal/errs"
)

// Driver is a SQLite implementation of database.Reader.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	db *sql.DB
}

// New opens the SQLite database described by cfg and returns a Driver.
// It pings the database before returning to surface open errors early —
// sql.Open alone does not touch the file.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	db, err := sql.Open(driverName, dsn(cfg))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	maxOpen := cfg.MaxOpenConns
	if isMemory(cfg.Path) {
		// Each pooled connection to a plain :memory: DSN would open its
		// own empty database. Pin the pool to a single connection.
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	d := &Driver{db: db}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

// DriverType identifies the underlying implementation: "purego" for
// modernc.org/sqlite, "cgo" for mattn/go-sqlite3.
func DriverType() string {
	return driverType
}

// --- database.Reader implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func (d *Driver) Close() error {
	return d.db.Close()
}

func (d *Driver) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return &sqliteRows{rows: rows}, nil
}

func (d *Driver) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return &sqliteRow{row: d.db.QueryRowContext(ctx, query, args...)}
}

// --- sql.DB type wrappers ---

type sqliteRows struct {
	rows *sql.Rows
}

func (r *sqliteRows) Next() bool             { return r.rows.Next() }
func (r *sqliteRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *sqliteRows) Close()                 { _ = r.rows.Close() }
func (r *sqliteRows) Err() error             { return r.rows.Err() }

type sqliteRow struct {
	row *sql.Row
}

// Scan classifies the deferred query error the same way Query does, so a
// missing row surfaces as a not-found error rather than raw sql.ErrNoRows.
func (r *sqliteRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		return mapError(err, "scan row")
	}
	return nil
}

// --- error mapping ---

// mapError translates driver-native errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	if kind, ok := classifyNativeError(err); ok {
		return errs.Wrap(kind, msg, err)
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
