//go:build !cgo_sqlite

package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sqlens/sqlens/internal/database"
	"github.com/sqlens/sqlens/internal/errs"

	sqlite3 "modernc.org/sqlite"
)

const (
	driverName = "sqlite"
	driverType = "purego"
)

// dsn builds a modernc.org/sqlite connection string from cfg.
func dsn(cfg *database.Config) string {
	var params []string
	if cfg.ReadOnly && !isMemory(cfg.Path) {
		params = append(params, "mode=ro")
	}
	if cfg.BusyTimeout > 0 {
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	}
	if len(params) == 0 {
		return cfg.Path
	}
	return "file:" + cfg.Path + "?" + strings.Join(params, "&")
}

// Primary result codes from the SQLite C API. Extended codes carry the
// primary code in the low byte.
const (
	codePerm     = 3
	codeBusy     = 5
	codeLocked   = 6
	codeAuth     = 23
	codeCantOpen = 14
	codeNotADB   = 26
)

// classifyNativeError maps modernc.org/sqlite result codes to an ErrKind.
func classifyNativeError(err error) (errs.ErrKind, bool) {
	var liteErr *sqlite3.Error
	if !errors.As(err, &liteErr) {
		return errs.ErrKindUnknown, false
	}

	switch liteErr.Code() & 0xff {
	case codeBusy, codeLocked:
		return errs.ErrKindTimeout, true
	case codePerm, codeAuth, codeCantOpen, codeNotADB:
		return errs.ErrKindConnectionFailed, true
	default:
		return errs.ErrKindQueryFailed, true
	}
}
