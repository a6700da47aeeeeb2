// Package schema introspects the structure of a SQLite database and
// resolves raw column types into the field-type vocabulary.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/sqlens/sqlens/internal/database"
	"github.com/sqlens/sqlens/internal/errs"
)

// Introspector implements Reader for SQLite using the sqlite_master catalog
// and the PRAGMA interface. It holds no state between calls; every result
// is recomputed from the live catalog.
type Introspector struct {
	db database.Reader
}

// NewIntrospector creates a SQLite schema introspector over db.
func NewIntrospector(db database.Reader) *Introspector {
	return &Introspector{db: db}
}

// DatabaseVersion returns the SQLite library version string, e.g. "3.50.4".
func (s *Introspector) DatabaseVersion(ctx context.Context) (string, error) {
	var version string
	if err := s.db.QueryRow(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return "", fmt.Errorf("database version: %w", err)
	}
	return version, nil
}

// ListTables returns the names of all user tables, sorted ascending.
// The sqlite_sequence bookkeeping table used for AUTOINCREMENT key
// generation is skipped.
func (s *Introspector) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT name FROM sqlite_master
		WHERE type='table' AND NOT name='sqlite_sequence'
		ORDER BY name`

	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// DescribeTable returns column descriptions for table in catalog column
// order. Size, precision, and scale stay nil — SQLite does not track them.
func (s *Introspector) DescribeTable(ctx context.Context, table string) ([]ColumnDescription, error) {
	info, err := s.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	cols := make([]ColumnDescription, 0, len(info))
	for _, ci := range info {
		cols = append(cols, ColumnDescription{
			Name:     ci.name,
			TypeName: ci.typeName,
			Nullable: ci.notNull == 0,
		})
	}
	return cols, nil
}

// TableIndexes returns a map from column name to its index flags.
//
// Primary-key flags come from the column metadata. Unique flags come from
// the index list: only single-column unique indexes are recorded, because
// the column-keyed map cannot represent composite uniqueness. Multi-column
// unique indexes are skipped without error, and callers depend on that.
func (s *Introspector) TableIndexes(ctx context.Context, table string) (map[string]IndexFlags, error) {
	info, err := s.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	indexes := make(map[string]IndexFlags, len(info))
	for _, ci := range info {
		indexes[ci.name] = IndexFlags{PrimaryKey: ci.pk != 0}
	}

	rows, err := s.db.Query(ctx, "PRAGMA index_list("+QuoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("index list for %s: %w", table, err)
	}

	type indexEntry struct {
		name   string
		unique int
	}
	var entries []indexEntry
	for rows.Next() {
		var (
			seq             int
			name            string
			unique, partial int
			origin          string
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan index entry: %w", err)
		}
		entries = append(entries, indexEntry{name: name, unique: unique})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, e := range entries {
		if e.unique == 0 {
			continue
		}
		columns, err := s.indexColumns(ctx, e.name)
		if err != nil {
			return nil, err
		}
		// Skip indexes across multiple columns.
		if len(columns) != 1 {
			continue
		}
		flags := indexes[columns[0]]
		flags.Unique = true
		indexes[columns[0]] = flags
	}

	return indexes, nil
}

// TableRelations would report foreign-key relationships, but SQLite's
// catalog dialect is not wired for it. It always fails.
func (s *Introspector) TableRelations(ctx context.Context, table string) (map[string]string, error) {
	return nil, errs.New(errs.ErrKindUnsupported, "foreign-key introspection is not available for sqlite")
}

// columnInfo is one row of PRAGMA table_info.
type columnInfo struct {
	name     string
	typeName string
	notNull  int
	pk       int // position in the primary key, 0 if not part of it
}

// tableInfo fetches PRAGMA table_info for the given table. A table with no
// rows in the catalog does not exist (SQLite reports no error for it), so
// that case surfaces as a not-found error.
func (s *Introspector) tableInfo(ctx context.Context, table string) ([]columnInfo, error) {
	rows, err := s.db.Query(ctx, "PRAGMA table_info("+QuoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("table info for %s: %w", table, err)
	}
	defer rows.Close()

	var info []columnInfo
	for rows.Next() {
		var (
			ci   columnInfo
			cid  int
			dflt any
		)
		if err := rows.Scan(&cid, &ci.name, &ci.typeName, &ci.notNull, &dflt, &ci.pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		info = append(info, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(info) == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound, "no such table: %s", table)
	}
	return info, nil
}

// indexColumns returns the column names covered by the named index, in
// index order.
func (s *Introspector) indexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := s.db.Query(ctx, "PRAGMA index_info("+QuoteIdent(index)+")")
	if err != nil {
		return nil, fmt.Errorf("index info for %s: %w", index, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name string
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, fmt.Errorf("scan index column: %w", err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// QuoteIdent wraps a SQL identifier in double quotes. PRAGMA statements
// take no bind parameters, so table and index names must be interpolated;
// quoting keeps reserved words and odd names safe.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
