package schema

import "context"

// ColumnDescription mirrors a DB-API style cursor description for one
// column. DisplaySize, InternalSize, Precision, and Scale are always nil:
// SQLite's catalog does not expose them, but consumers expect the richer
// shape, so the placeholders are kept.
type ColumnDescription struct {
	Name         string `json:"name" yaml:"name"`
	TypeName     string `json:"type" yaml:"type"`
	DisplaySize  *int   `json:"display_size" yaml:"display_size"`
	InternalSize *int   `json:"internal_size" yaml:"internal_size"`
	Precision    *int   `json:"precision" yaml:"precision"`
	Scale        *int   `json:"scale" yaml:"scale"`
	Nullable     bool   `json:"nullable" yaml:"nullable"`
}

// IndexFlags records whether a column is covered by the primary key or by a
// single-column unique index.
type IndexFlags struct {
	PrimaryKey bool `json:"primary_key" yaml:"primary_key"`
	Unique     bool `json:"unique" yaml:"unique"`
}

// Reader is the introspection interface the server and snapshot layers
// consume.
type Reader interface {
	// DatabaseVersion reports the engine version string of the connected
	// database.
	DatabaseVersion(ctx context.Context) (string, error)

	// ListTables returns user table names in ascending lexicographic order.
	ListTables(ctx context.Context) ([]string, error)

	// DescribeTable returns column descriptions in catalog column order.
	DescribeTable(ctx context.Context, table string) ([]ColumnDescription, error)

	// TableIndexes returns per-column primary-key and unique flags.
	TableIndexes(ctx context.Context, table string) (map[string]IndexFlags, error)

	// TableRelations reports foreign-key relationships. Not supported on
	// SQLite; it always fails with an unsupported-operation error.
	TableRelations(ctx context.Context, table string) (map[string]string, error)
}
