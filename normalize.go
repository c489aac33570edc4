package indexing

import (
	"reflect"
)

// Tuple is the canonical flat container for multi-element keys: ordered,
// finite, with no nested sequences after normalization. A Tuple result is
// owned by the caller and holds no reference to the registry that
// produced it.
type Tuple []any

// Sequencer is the structural protocol for user-defined flattenable
// containers. A type implementing Sequencer is learned as a sequence the
// first time one of its values is seen, and is flattened element by
// element from then on.
//
// At must accept every i in [0, Len()). An At error aborts normalization
// with a MALFORMED_INPUT key error.
type Sequencer interface {
	Len() int
	At(i int) (any, error)
}

// lener detects the partial protocol: a length without positional access.
type lener interface {
	Len() int
}

// DefaultMaxSpliceOps bounds the number of splice operations a single
// normalization may perform. Finite acyclic keys stay far below it;
// cyclic keys hit it instead of looping forever.
const DefaultMaxSpliceOps = 1 << 16

// Canonicalizer flattens raw index keys into canonical form, consulting
// and extending a Registry as it classifies each element.
type Canonicalizer struct {
	reg *Registry

	// MaxSpliceOps overrides DefaultMaxSpliceOps when positive.
	MaxSpliceOps int
}

// New creates a Canonicalizer backed by the given registry. Pass
// DefaultRegistry() to share classifications process-wide, or a fresh
// NewRegistry() for an isolated instance (useful in tests).
func New(reg *Registry) *Canonicalizer {
	return &Canonicalizer{reg: reg}
}

// Registry returns the registry this canonicalizer consults.
func (c *Canonicalizer) Registry() *Registry {
	return c.reg
}

// Normalize reduces a raw index key to its canonical form.
//
// Values of a Native type are returned unchanged. Sequences are flattened
// depth-first, left-to-right, with sibling order preserved. A result with
// exactly one element is unwrapped to a bare scalar; an originally empty
// sequence normalizes to the empty Tuple. Normalize is idempotent:
// feeding a canonical result back in yields an equal result.
//
// Types not yet classified are resolved on first contact and the decision
// is recorded permanently in the registry, so the cost of structural
// inspection is paid once per type per process.
func (c *Canonicalizer) Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	var buf []any
	switch c.reg.Classify(reflect.TypeOf(v)) {
	case Native:
		return v, nil
	case Sequence:
		elems, err := c.elements(-1, v)
		if err != nil {
			return nil, err
		}
		buf = elems
	default:
		// Treat an unclassified scalar as a length-1 sequence; the loop
		// below classifies it like any other element.
		buf = []any{v}
	}

	maxOps := c.MaxSpliceOps
	if maxOps <= 0 {
		maxOps = DefaultMaxSpliceOps
	}

	ops := 0
	for i := 0; i < len(buf); {
		e := buf[i]
		if e == nil {
			i++
			continue
		}
		t := reflect.TypeOf(e)
		class := c.reg.Classify(t)
		if class == Unclassified {
			var err error
			class, err = c.learn(i, t, e)
			if err != nil {
				return nil, err
			}
		}
		if class == Native {
			i++
			continue
		}

		// Splice the sequence's elements in place of the element itself.
		// The cursor stays put: the first spliced element may itself be a
		// sequence and must be reexamined.
		ops++
		if ops > maxOps {
			return nil, newRecursionError(i, maxOps)
		}
		elems, err := c.elements(i, e)
		if err != nil {
			return nil, err
		}
		next := make([]any, 0, len(buf)+len(elems)-1)
		next = append(next, buf[:i]...)
		next = append(next, elems...)
		next = append(next, buf[i+1:]...)
		buf = next
	}

	if len(buf) == 1 {
		return buf[0], nil
	}
	return Tuple(buf), nil
}

// learn resolves the classification of an unclassified type and, when a
// structural protocol matches, records the decision in the registry so
// the remainder of this pass and all future passes skip the inspection.
func (c *Canonicalizer) learn(pos int, t reflect.Type, v any) (Class, error) {
	if _, ok := v.(Sequencer); ok {
		return c.reg.RegisterSequence(t), nil
	}
	if _, ok := v.(lener); ok {
		return Unclassified, newMalformedError(pos, t.String(),
			"value reports a length but has no positional access", nil)
	}
	switch t.Kind() {
	case reflect.String:
		// String-shaped types are indexable sequences of characters, but
		// a key element "ab" must never flatten to ('a', 'b').
		return c.reg.RegisterNative(t), nil
	case reflect.Slice, reflect.Array:
		if isCharSeq(t) {
			return c.reg.RegisterNative(t), nil
		}
		return c.reg.RegisterSequence(t), nil
	}
	// No structural protocol: atomic for this call, but not recorded.
	return Native, nil
}

// isCharSeq reports whether t is a byte or rune container, which is
// treated as text and therefore atomic.
func isCharSeq(t reflect.Type) bool {
	k := t.Elem().Kind()
	return k == reflect.Uint8 || k == reflect.Int32
}

// elements returns the ordered elements of a sequence-classified value.
// pos is the element's position in the working tuple, or -1 for the
// top-level input.
func (c *Canonicalizer) elements(pos int, v any) ([]any, error) {
	switch s := v.(type) {
	case Tuple:
		return s, nil
	case []any:
		// Copy so a later splice never aliases the caller's slice. The
		// make keeps an empty input distinct from a nil one.
		return append(make([]any, 0, len(s)), s...), nil
	case Sequencer:
		n := s.Len()
		if n < 0 {
			return nil, newMalformedError(pos, reflect.TypeOf(v).String(),
				"sequence reports negative length", nil)
		}
		elems := make([]any, n)
		for i := 0; i < n; i++ {
			e, err := s.At(i)
			if err != nil {
				return nil, newMalformedError(pos, reflect.TypeOf(v).String(),
					"positional access failed", err)
			}
			elems[i] = e
		}
		return elems, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return elems, nil
	}
	// Reachable only for types force-registered as sequences without any
	// sequence protocol.
	return nil, newMalformedError(pos, reflect.TypeOf(v).String(),
		"type registered as sequence but supports no sequence protocol", nil)
}

// AsTuple normalizes v and guarantees a tuple-shaped result: a bare
// scalar is wrapped as a single-element Tuple, while tuple results
// (including the empty tuple) pass through unchanged.
func (c *Canonicalizer) AsTuple(v any) (Tuple, error) {
	n, err := c.Normalize(v)
	if err != nil {
		return nil, err
	}
	if t, ok := n.(Tuple); ok {
		return t, nil
	}
	return Tuple{n}, nil
}
