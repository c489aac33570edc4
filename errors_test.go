package indexing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *KeyError
		want string
	}{
		{
			"with_pos_and_type",
			newMalformedError(2, "cli.brokenSeq", "positional access failed", nil),
			"MALFORMED_INPUT: positional access failed (pos=2, type=cli.brokenSeq)",
		},
		{
			"type_only",
			newMalformedError(-1, "cli.brokenSeq", "positional access failed", nil),
			"MALFORMED_INPUT: positional access failed (type=cli.brokenSeq)",
		},
		{
			"bare",
			&KeyError{Code: ErrCodeRecursionLimit, Message: "too deep", Pos: -1},
			"RECURSION_LIMIT: too deep",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKeyErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("index 3 out of range")
	err := newMalformedError(0, "x", "positional access failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestKeyErrorHelpers(t *testing.T) {
	malformed := newMalformedError(0, "x", "bad", nil)
	recursion := newRecursionError(1, 16)

	assert.True(t, IsMalformedInput(malformed))
	assert.False(t, IsMalformedInput(recursion))
	assert.True(t, IsRecursionLimit(recursion))
	assert.False(t, IsRecursionLimit(malformed))

	// Helpers see through wrapping.
	wrapped := fmt.Errorf("normalize key: %w", malformed)
	assert.True(t, IsMalformedInput(wrapped))

	assert.False(t, IsMalformedInput(errors.New("plain")))
	assert.False(t, IsRecursionLimit(nil))
}
