package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlens/sqlens/internal/errs"
)

func TestResolveFieldType_FixedTable(t *testing.T) {
	tests := []struct {
		colType string
		want    string
	}{
		{"bool", "BooleanField"},
		{"boolean", "BooleanField"},
		{"smallint", "SmallIntegerField"},
		{"smallint unsigned", "PositiveSmallIntegerField"},
		{"smallinteger", "SmallIntegerField"},
		{"int", "IntegerField"},
		{"integer", "IntegerField"},
		{"integer unsigned", "PositiveIntegerField"},
		{"decimal", "DecimalField"},
		{"real", "FloatField"},
		{"text", "TextField"},
		{"char", "CharField"},
		{"date", "DateField"},
		{"datetime", "DateTimeField"},
		{"time", "TimeField"},
	}

	for _, tt := range tests {
		t.Run(tt.colType, func(t *testing.T) {
			ft, err := ResolveFieldType(tt.colType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ft.Name)
			assert.Nil(t, ft.Options)

			// The lookup is case-insensitive.
			upper, err := ResolveFieldType(strings.ToUpper(tt.colType))
			require.NoError(t, err)
			assert.Equal(t, tt.want, upper.Name)
		})
	}
}

func TestResolveFieldType_ParameterizedChar(t *testing.T) {
	tests := []struct {
		colType   string
		maxLength int
	}{
		{"varchar(30)", 30},
		{"VARCHAR(30)", 30},
		{"char(1)", 1},
		{"  varchar ( 255 ) ", 255},
		{"char( 10 )", 10},
		{"varchar(0)", 0}, // length is not validated
	}

	for _, tt := range tests {
		t.Run(tt.colType, func(t *testing.T) {
			ft, err := ResolveFieldType(tt.colType)
			require.NoError(t, err)
			assert.Equal(t, "CharField", ft.Name)
			assert.Equal(t, map[string]int{"max_length": tt.maxLength}, ft.Options)
		})
	}
}

func TestResolveFieldType_Unknown(t *testing.T) {
	tests := []string{
		"blob",
		"varchar",   // no length parameter
		"varchar()", // empty length
		"varchar(abc)",
		"varchar(-5)",
		"nvarchar(30)",
		"varchar(30) not null",
		"",
	}

	for _, colType := range tests {
		t.Run("unknown/"+colType, func(t *testing.T) {
			_, err := ResolveFieldType(colType)
			require.Error(t, err)
			assert.True(t, errs.IsUnknownType(err))
		})
	}
}
