package indexing

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// KeyString renders a canonical key in a deterministic textual form for
// diagnostics and golden comparisons: scalars by value, strings quoted,
// tuples as "(e1, e2)". Strings are NFC normalized at this boundary so
// visually identical keys render identically regardless of the Unicode
// composition the caller used.
//
// The rendering has no bearing on key equality or hashing; it exists for
// humans and test fixtures.
func KeyString(v any) string {
	if t, ok := v.(Tuple); ok {
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = KeyString(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return scalarString(v)
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return strconv.Quote(norm.NFC.String(s))
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		// Named string types render like strings, annotated with the type.
		return rv.Type().String() + "(" + strconv.Quote(norm.NFC.String(rv.String())) + ")"
	}
	return fmt.Sprintf("%v", v)
}
