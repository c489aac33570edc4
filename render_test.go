package indexing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"int", 7, "7"},
		{"float", 2.5, "2.5"},
		{"string", "ab", `"ab"`},
		{"nil", nil, "<nil>"},
		{"empty_tuple", Tuple{}, "()"},
		{"flat_tuple", Tuple{1, "a", 2}, `(1, "a", 2)`},
		{"named_string", componentName("x"), `indexing.componentName("x")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyString(tt.in))
		})
	}
}

func TestKeyStringNFCDeterminism(t *testing.T) {
	// "café" with a combining acute vs the precomposed character: the
	// renderings must be byte-identical.
	composed := "café"
	decomposed := "café"
	require.NotEqual(t, composed, decomposed)
	assert.Equal(t, KeyString(composed), KeyString(decomposed))
}

func TestKeyStringGolden(t *testing.T) {
	c := New(NewRegistry())
	inputs := []any{
		7,
		"ab",
		2.5,
		nil,
		Tuple{1, Tuple{2, 3}, 4},
		Tuple{1, Tuple{Tuple{2, 3}, 4}, Tuple{5}},
		Tuple{"ab", 1},
		Tuple{7},
		Tuple{},
		Tuple{"café", 1},
	}

	var b strings.Builder
	for _, in := range inputs {
		key, err := c.Normalize(in)
		require.NoError(t, err)
		fmt.Fprintln(&b, KeyString(key))
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "keys", []byte(b.String()))
}
