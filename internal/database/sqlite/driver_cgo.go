//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1

package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sqlens/sqlens/internal/database"
	"github.com/sqlens/sqlens/internal/errs"

	sqlite3 "github.com/mattn/go-sqlite3"
)

const (
	driverName = "sqlite3"
	driverType = "cgo"
)

// dsn builds a mattn/go-sqlite3 connection string from cfg.
func dsn(cfg *database.Config) string {
	var params []string
	if cfg.ReadOnly && !isMemory(cfg.Path) {
		params = append(params, "mode=ro")
	}
	if cfg.BusyTimeout > 0 {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", cfg.BusyTimeout.Milliseconds()))
	}
	if len(params) == 0 {
		return cfg.Path
	}
	return "file:" + cfg.Path + "?" + strings.Join(params, "&")
}

// classifyNativeError maps mattn/go-sqlite3 error codes to an ErrKind.
func classifyNativeError(err error) (errs.ErrKind, bool) {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return errs.ErrKindUnknown, false
	}

	switch liteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return errs.ErrKindTimeout, true
	case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrCantOpen, sqlite3.ErrNotADB:
		return errs.ErrKindConnectionFailed, true
	default:
		return errs.ErrKindQueryFailed, true
	}
}
