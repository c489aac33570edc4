// Package indexing canonicalizes compound index keys for sparse
// multi-dimensional mappings.
//
// This package is the foundational layer of the modelframe indexing
// subsystem: it imports nothing internal, and everything that addresses
// entries by compound key imports it. A raw key of arbitrary nesting is
// reduced to a canonical flat form (a bare scalar or a Tuple) suitable
// for use as a hash key.
//
// Key design constraints:
//   - Classification of a type as atomic or flattenable is a one-time,
//     process-wide decision cached in a Registry; once made it never changes.
//   - Flattening is depth-first, left-to-right, and idempotent.
//   - String-shaped values are atomic even though they are structurally
//     sequences of characters.
//   - The package performs no I/O; storage for the keyed mappings lives
//     elsewhere in the framework.
package indexing
