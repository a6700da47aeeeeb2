package schema

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/sqlens/sqlens/internal/database"
	"github.com/sqlens/sqlens/internal/errs"
)

// testReader adapts a raw *sql.DB to database.Reader so fixtures can be
// created with plain DDL before introspecting them.
type testReader struct {
	db *sql.DB
}

func (t *testReader) Ping(ctx context.Context) error { return t.db.PingContext(ctx) }
func (t *testReader) Close() error                   { return t.db.Close() }

func (t *testReader) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &testRows{rows: rows}, nil
}

func (t *testReader) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.db.QueryRowContext(ctx, query, args...)
}

type testRows struct {
	rows *sql.Rows
}

func (r *testRows) Next() bool             { return r.rows.Next() }
func (r *testRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *testRows) Close()                 { _ = r.rows.Close() }
func (r *testRows) Err() error             { return r.rows.Err() }

func newTestIntrospector(t *testing.T) *Introspector {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A second pooled connection would see a different empty memory DB.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ddl := []string{
		`CREATE TABLE author (
			id integer NOT NULL PRIMARY KEY AUTOINCREMENT,
			name varchar(100) NOT NULL,
			email varchar(75) NOT NULL UNIQUE,
			active bool NOT NULL,
			bio text
		)`,
		`CREATE TABLE entry (
			id integer NOT NULL PRIMARY KEY,
			author_id integer NOT NULL,
			slug varchar(50) NOT NULL,
			lang varchar(8) NOT NULL,
			rating real,
			body blob
		)`,
		`CREATE UNIQUE INDEX entry_slug_lang ON entry (slug, lang)`,
		`CREATE INDEX entry_author ON entry (author_id)`,
	}
	for _, stmt := range ddl {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	return NewIntrospector(&testReader{db: db})
}

func TestDatabaseVersion(t *testing.T) {
	intro := newTestIntrospector(t)

	version, err := intro.DatabaseVersion(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(version, "3."), "version %q", version)
}

func TestListTables(t *testing.T) {
	intro := newTestIntrospector(t)

	tables, err := intro.ListTables(context.Background())
	require.NoError(t, err)

	// AUTOINCREMENT on author created sqlite_sequence; it must be hidden.
	// Names come back in ascending lexicographic order.
	assert.Equal(t, []string{"author", "entry"}, tables)
}

func TestDescribeTable(t *testing.T) {
	intro := newTestIntrospector(t)

	cols, err := intro.DescribeTable(context.Background(), "author")
	require.NoError(t, err)
	require.Len(t, cols, 5)

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"id", "name", "email", "active", "bio"}, names)

	// SQLite reports declared types back through its catalog, but newer
	// releases canonicalise exact standard names (integer -> INTEGER) while
	// leaving parameterised ones verbatim. The raw string is propagated
	// as-is and the field-type resolver is case-insensitive, so compare
	// folded.
	assert.Equal(t, "integer", strings.ToLower(cols[0].TypeName))
	assert.Equal(t, "varchar(100)", strings.ToLower(cols[1].TypeName))
	assert.Equal(t, "bool", strings.ToLower(cols[3].TypeName))

	assert.False(t, cols[0].Nullable)
	assert.False(t, cols[1].Nullable)
	assert.True(t, cols[4].Nullable, "bio has no NOT NULL constraint")

	// The richer cursor-description positions stay nil on SQLite.
	for _, c := range cols {
		assert.Nil(t, c.DisplaySize)
		assert.Nil(t, c.InternalSize)
		assert.Nil(t, c.Precision)
		assert.Nil(t, c.Scale)
	}
}

func TestDescribeTable_Missing(t *testing.T) {
	intro := newTestIntrospector(t)

	_, err := intro.DescribeTable(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestTableIndexes_SingleColumnUnique(t *testing.T) {
	intro := newTestIntrospector(t)

	indexes, err := intro.TableIndexes(context.Background(), "author")
	require.NoError(t, err)

	assert.Equal(t, IndexFlags{PrimaryKey: true}, indexes["id"])
	assert.Equal(t, IndexFlags{Unique: true}, indexes["email"])
	assert.Equal(t, IndexFlags{}, indexes["name"])
	assert.Equal(t, IndexFlags{}, indexes["active"])
	assert.Equal(t, IndexFlags{}, indexes["bio"])
}

func TestTableIndexes_CompositeUniqueSkipped(t *testing.T) {
	intro := newTestIntrospector(t)

	indexes, err := intro.TableIndexes(context.Background(), "entry")
	require.NoError(t, err)

	// entry_slug_lang is unique but spans two columns, so neither column
	// reports unique. The non-unique entry_author index changes nothing.
	for name, flags := range indexes {
		assert.False(t, flags.Unique, "column %s must not be unique", name)
	}
	assert.True(t, indexes["id"].PrimaryKey)
	assert.False(t, indexes["slug"].PrimaryKey)
}

func TestTableRelations_Unsupported(t *testing.T) {
	intro := newTestIntrospector(t)

	for _, table := range []string{"author", "entry", "does_not_exist"} {
		_, err := intro.TableRelations(context.Background(), table)
		require.Error(t, err)
		assert.True(t, errs.IsUnsupported(err))
	}
}

func TestInspect_Snapshot(t *testing.T) {
	intro := newTestIntrospector(t)

	snap, err := Inspect(context.Background(), intro, "testdb")
	require.NoError(t, err)

	assert.Equal(t, "testdb", snap.Database)
	assert.False(t, snap.GeneratedAt.IsZero())
	require.Len(t, snap.Tables, 2)

	author := snap.Tables[0]
	assert.Equal(t, "author", author.Name)

	byName := make(map[string]ColumnSnapshot, len(author.Columns))
	for _, c := range author.Columns {
		byName[c.Name] = c
	}

	require.NotNil(t, byName["name"].FieldType)
	assert.Equal(t, "CharField", byName["name"].FieldType.Name)
	assert.Equal(t, map[string]int{"max_length": 100}, byName["name"].FieldType.Options)

	require.NotNil(t, byName["active"].FieldType)
	assert.Equal(t, "BooleanField", byName["active"].FieldType.Name)

	// blob has no mapping: the column survives, its field type does not.
	entry := snap.Tables[1]
	for _, c := range entry.Columns {
		if c.Name == "body" {
			assert.Nil(t, c.FieldType)
		}
	}

	assert.True(t, author.Indexes["email"].Unique)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"entry"`, QuoteIdent("entry"))
	assert.Equal(t, `"odd ""name"""`, QuoteIdent(`odd "name"`))
}
