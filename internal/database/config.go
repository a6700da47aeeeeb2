package database

import "time"

// Config holds all settings needed to open the inspected SQLite database.
type Config struct {
	// Path is the filesystem path to the database file.
	// Use ":memory:" for an in-memory database.
	Path string

	// ReadOnly opens the database in read-only mode. Introspection never
	// writes, so this is the default for the catalog server.
	ReadOnly bool

	// BusyTimeout is how long a query waits on a locked database before
	// failing with SQLITE_BUSY.
	BusyTimeout time.Duration

	// Pool tuning. SQLite serialises writers but concurrent readers are
	// fine, so a small pool is plenty.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Timeouts
	ConnectTimeout time.Duration // time limit for the initial ping
	QueryTimeout   time.Duration // default per-query deadline (applied by callers)
}

// DefaultConfig returns sensible settings for the given database path.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:            path,
		ReadOnly:        true,
		BusyTimeout:     5 * time.Second,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		QueryTimeout:    30 * time.Second,
	}
}
