package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
		want bool
	}{
		{"not found", New(ErrKindNotFound, "no such table"), IsNotFound, true},
		{"unsupported", New(ErrKindUnsupported, "relations"), IsUnsupported, true},
		{"unknown type", Newf(ErrKindUnknownType, "unknown column type %q", "blob"), IsUnknownType, true},
		{"query failed", Wrap(ErrKindQueryFailed, "pragma failed", errors.New("boom")), IsQueryFailed, true},
		{"kind mismatch", New(ErrKindTimeout, "slow"), IsNotFound, false},
		{"plain error", errors.New("plain"), IsNotFound, false},
		{"nil", nil, IsUnsupported, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred(tt.err))
		})
	}
}

func TestPredicates_WrappedChain(t *testing.T) {
	inner := New(ErrKindUnknownType, "unknown column type")
	outer := fmt.Errorf("describing table: %w", inner)

	assert.True(t, IsUnknownType(outer))
	assert.False(t, IsQueryFailed(outer))
}

func TestError_Message(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Wrap(ErrKindQueryFailed, "query failed", cause)

	assert.Equal(t, "[query_failed] query failed: disk I/O error", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))

	bare := New(ErrKindNotFound, "no such object")
	assert.Equal(t, "[not_found] no such object", bare.Error())
}
