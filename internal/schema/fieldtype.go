package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sqlens/sqlens/internal/errs"
)

// FieldType is the ORM-facing type a raw SQLite column type resolves to.
// Options carries per-type configuration (currently only "max_length" for
// parameterized character types).
type FieldType struct {
	Name    string         `json:"name" yaml:"name"`
	Options map[string]int `json:"options,omitempty" yaml:"options,omitempty"`
}

// fieldTypes maps SQLite type names to field types. Some SQL types have
// multiple entries because SQLite allows for anything and doesn't normalize
// the declared type; it stores whatever was given.
var fieldTypes = map[string]string{
	"bool":              "BooleanField",
	"boolean":           "BooleanField",
	"smallint":          "SmallIntegerField",
	"smallint unsigned": "PositiveSmallIntegerField",
	"smallinteger":      "SmallIntegerField",
	"int":               "IntegerField",
	"integer":           "IntegerField",
	"integer unsigned":  "PositiveIntegerField",
	"decimal":           "DecimalField",
	"real":              "FloatField",
	"text":              "TextField",
	"char":              "CharField",
	"date":              "DateField",
	"datetime":          "DateTimeField",
	"time":              "TimeField",
}

// charPattern matches parameterized character types such as "varchar(30)"
// or "char ( 10 )", which cannot be resolved by a plain table lookup.
var charPattern = regexp.MustCompile(`^\s*(?:var)?char\s*\(\s*(\d+)\s*\)\s*$`)

// ResolveFieldType maps a raw column type string to a FieldType.
//
// The lookup is case-insensitive. Exact matches against the fixed table win;
// otherwise parameterized char/varchar types resolve to CharField with a
// max_length option. Anything else returns an unknown-type error, which
// callers are expected to treat as "opaque column" rather than a hard
// failure. The length parameter is taken as-is, with no bound checks.
func ResolveFieldType(colType string) (FieldType, error) {
	key := strings.ToLower(colType)

	if name, ok := fieldTypes[key]; ok {
		return FieldType{Name: name}, nil
	}

	if m := charPattern.FindStringSubmatch(key); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Digits long enough to overflow int are not a length we
			// can represent.
			return FieldType{}, errs.Newf(errs.ErrKindUnknownType, "unparseable char length in %q", colType)
		}
		return FieldType{
			Name:    "CharField",
			Options: map[string]int{"max_length": n},
		}, nil
	}

	return FieldType{}, errs.Newf(errs.ErrKindUnknownType, "no field type for column type %q", colType)
}
