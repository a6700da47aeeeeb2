package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlens/sqlens/internal/database"
	"github.com/sqlens/sqlens/internal/errs"
)

func newMemoryDriver(t *testing.T) *Driver {
	t.Helper()

	d, err := New(context.Background(), database.DefaultConfig(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestNew_Memory(t *testing.T) {
	d := newMemoryDriver(t)
	assert.NoError(t, d.Ping(context.Background()))
}

func TestNew_MissingReadOnlyFile(t *testing.T) {
	cfg := database.DefaultConfig(filepath.Join(t.TempDir(), "absent.db"))

	// Read-only mode cannot create the file, so the connect ping fails.
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestQuery(t *testing.T) {
	d := newMemoryDriver(t)

	rows, err := d.Query(context.Background(), "SELECT 1 UNION ALL SELECT 2 ORDER BY 1")
	require.NoError(t, err)
	defer rows.Close()

	var got []int
	for rows.Next() {
		var n int
		require.NoError(t, rows.Scan(&n))
		got = append(got, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int{1, 2}, got)
}

func TestQuery_SyntaxError(t *testing.T) {
	d := newMemoryDriver(t)

	_, err := d.Query(context.Background(), "SELEKT nonsense")
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
}

func TestQueryRow(t *testing.T) {
	d := newMemoryDriver(t)

	var version string
	err := d.QueryRow(context.Background(), "SELECT sqlite_version()").Scan(&version)
	require.NoError(t, err)
	assert.NotEmpty(t, version)
}

func TestQueryRow_NoRows(t *testing.T) {
	d := newMemoryDriver(t)

	var name string
	err := d.QueryRow(context.Background(), "SELECT name FROM sqlite_master WHERE type='table'").Scan(&name)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err), "missing row is classified, not raw")
	assert.True(t, errors.Is(err, sql.ErrNoRows), "the native cause stays in the chain")
}

func TestDriverType(t *testing.T) {
	assert.Contains(t, []string{"purego", "cgo"}, DriverType())
}
