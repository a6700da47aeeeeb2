package schema

import (
	"context"
	"fmt"
	"time"
)

// ColumnSnapshot is a described column together with its resolved field
// type. FieldType is nil when the raw type has no mapping — the column is
// still reported, just as an opaque field.
type ColumnSnapshot struct {
	ColumnDescription `yaml:",inline"`
	FieldType         *FieldType `json:"field_type,omitempty" yaml:"field_type,omitempty"`
}

// TableSnapshot is the full introspected state of one table.
type TableSnapshot struct {
	Name    string                `json:"name" yaml:"name"`
	Columns []ColumnSnapshot      `json:"columns" yaml:"columns"`
	Indexes map[string]IndexFlags `json:"indexes" yaml:"indexes"`
}

// Snapshot is the introspected state of the whole database at one point in
// time.
type Snapshot struct {
	Database    string          `json:"database" yaml:"database"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Tables      []TableSnapshot `json:"tables" yaml:"tables"`
}

// Inspect builds a full Snapshot by orchestrating the Reader: one table
// listing, then per-table columns and indexes. Field types resolve through
// the fixed table; unknown column types degrade to a nil FieldType rather
// than failing the snapshot.
func Inspect(ctx context.Context, r Reader, database string) (*Snapshot, error) {
	tables, err := r.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Database:    database,
		GeneratedAt: time.Now().UTC(),
		Tables:      make([]TableSnapshot, 0, len(tables)),
	}

	for _, table := range tables {
		cols, err := r.DescribeTable(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("describing table %q: %w", table, err)
		}
		indexes, err := r.TableIndexes(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("indexing table %q: %w", table, err)
		}

		ts := TableSnapshot{
			Name:    table,
			Columns: make([]ColumnSnapshot, 0, len(cols)),
			Indexes: indexes,
		}
		for _, col := range cols {
			cs := ColumnSnapshot{ColumnDescription: col}
			if ft, err := ResolveFieldType(col.TypeName); err == nil {
				cs.FieldType = &ft
			}
			ts.Columns = append(ts.Columns, cs)
		}
		snap.Tables = append(snap.Tables, ts)
	}

	return snap, nil
}
