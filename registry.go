package indexing

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Class is the classification assigned to a value's type.
// The set of classes is closed: only the three constants below exist.
type Class int

const (
	// Unclassified means the type has not yet been placed in either set.
	Unclassified Class = iota

	// Native marks a type treated as an indivisible scalar, regardless of
	// any internal structure.
	Native

	// Sequence marks a type treated as an ordered, flattenable container.
	Sequence
)

// String returns the class name for diagnostics.
func (c Class) String() string {
	switch c {
	case Native:
		return "native"
	case Sequence:
		return "sequence"
	default:
		return "unclassified"
	}
}

// Registry caches the Native/Sequence classification of exact types.
//
// The registry is append-only: a type, once classified, keeps that
// classification for the life of the registry. Both sets live in a single
// map keyed by reflect.Type so that a type can never be observed in both
// sets, even under concurrent registration. Reads and writes are safe
// from any number of goroutines.
type Registry struct {
	classes sync.Map // reflect.Type -> Class

	// learned counts registrations made after seeding, per class.
	learnedNative   atomic.Int64
	learnedSequence atomic.Int64

	// learnedCounter is an optional OTel instrument incremented on each
	// learned registration. Nil when no meter is configured.
	learnedCounter metric.Int64Counter
}

// RegistryOption configures a Registry at construction time.
type RegistryOption func(*Registry)

// WithMeter attaches OpenTelemetry metric instrumentation to the registry.
// The registry records an "indexing.registry.learned" counter with a
// "class" attribute each time a new type classification is learned.
// Instrument creation errors are ignored; the registry then runs
// uninstrumented.
func WithMeter(m metric.Meter) RegistryOption {
	return func(r *Registry) {
		if m == nil {
			return
		}
		counter, err := m.Int64Counter(
			"indexing.registry.learned",
			metric.WithDescription("Number of type classifications learned at runtime"),
			metric.WithUnit("1"),
		)
		if err != nil {
			return
		}
		r.learnedCounter = counter
	}
}

// Entry is a single (type, class) association in a registry snapshot.
type Entry struct {
	Type  reflect.Type
	Class Class
}

// RegistryStats is a point-in-time summary of registry contents.
type RegistryStats struct {
	Native          int `json:"native"`
	Sequence        int `json:"sequence"`
	LearnedNative   int `json:"learned_native"`
	LearnedSequence int `json:"learned_sequence"`
}

// seededNative lists the built-in atomic types. Scalar kinds plus string;
// everything here is a hash-stable value with no key-relevant structure.
var seededNative = []any{
	false,
	"",
	int(0), int8(0), int16(0), int32(0), int64(0),
	uint(0), uint8(0), uint16(0), uint32(0), uint64(0), uintptr(0),
	float32(0), float64(0),
	complex64(0), complex128(0),
}

// NewRegistry creates a registry seeded with the built-in classifications:
// scalar types are Native, Tuple and []any are Sequence.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	for _, v := range seededNative {
		r.classes.Store(reflect.TypeOf(v), Native)
	}
	r.classes.Store(reflect.TypeOf(Tuple(nil)), Sequence)
	r.classes.Store(reflect.TypeOf([]any(nil)), Sequence)
	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide shared registry. It is created
// once at package init and lives for the life of the process; types learned
// through it benefit every caller that uses the package-level API.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Classify returns the cached classification for t, or Unclassified if the
// type has not been registered. A nil type (the type of an untyped nil)
// classifies as Native.
func (r *Registry) Classify(t reflect.Type) Class {
	if t == nil {
		return Native
	}
	if c, ok := r.classes.Load(t); ok {
		return c.(Class)
	}
	return Unclassified
}

// RegisterNative records t as atomic. Registration is idempotent and
// first-writer-wins: if t was already classified, the existing class is
// returned unchanged.
func (r *Registry) RegisterNative(t reflect.Type) Class {
	return r.register(t, Native)
}

// RegisterSequence records t as a flattenable container. Registration is
// idempotent and first-writer-wins: if t was already classified, the
// existing class is returned unchanged.
func (r *Registry) RegisterSequence(t reflect.Type) Class {
	return r.register(t, Sequence)
}

func (r *Registry) register(t reflect.Type, c Class) Class {
	prev, loaded := r.classes.LoadOrStore(t, c)
	if loaded {
		return prev.(Class)
	}
	switch c {
	case Native:
		r.learnedNative.Add(1)
	case Sequence:
		r.learnedSequence.Add(1)
	}
	if r.learnedCounter != nil {
		r.learnedCounter.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("class", c.String())))
	}
	return c
}

// Stats returns a snapshot of registry contents. Counts may lag concurrent
// registrations but are internally consistent enough for probes and
// diagnostics.
func (r *Registry) Stats() RegistryStats {
	s := RegistryStats{
		LearnedNative:   int(r.learnedNative.Load()),
		LearnedSequence: int(r.learnedSequence.Load()),
	}
	r.classes.Range(func(_, v any) bool {
		switch v.(Class) {
		case Native:
			s.Native++
		case Sequence:
			s.Sequence++
		}
		return true
	})
	return s
}

// Entries returns a snapshot of all registered classifications, sorted by
// type name for deterministic output.
func (r *Registry) Entries() []Entry {
	var entries []Entry
	r.classes.Range(func(k, v any) bool {
		entries = append(entries, Entry{Type: k.(reflect.Type), Class: v.(Class)})
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Type.String() < entries[j].Type.String()
	})
	return entries
}
