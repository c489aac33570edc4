package indexing

import "sync/atomic"

// std is the package-level canonicalizer, bound to the process-wide
// registry.
var std = New(DefaultRegistry())

// Normalize canonicalizes v using the process-wide registry. See
// Canonicalizer.Normalize.
func Normalize(v any) (any, error) {
	return std.Normalize(v)
}

// AsTuple canonicalizes v using the process-wide registry and guarantees
// a tuple-shaped result. See Canonicalizer.AsTuple.
func AsTuple(v any) (Tuple, error) {
	return std.AsTuple(v)
}

// flattenEnabled gates index flattening framework-wide. It defaults to on.
var flattenEnabled atomic.Bool

func init() {
	flattenEnabled.Store(true)
}

// SetFlatten switches framework-wide index flattening on or off.
//
// The toggle is advisory: Normalize itself always flattens. Call sites
// that build lookup keys consult FlattenEnabled and skip the Normalize
// call entirely when flattening is off, so raw keys address the mapping
// as-is.
func SetFlatten(enabled bool) {
	flattenEnabled.Store(enabled)
}

// FlattenEnabled reports whether framework-wide index flattening is on.
func FlattenEnabled() bool {
	return flattenEnabled.Load()
}
