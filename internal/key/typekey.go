// Package key defines the small, hashable value types that identify
// bindings throughout the pipeline: TypeKey, Qualifier, ScopeKey, MapKey
// and the ContextualTypeKey wrapper. None of these retain references to
// host symbols; they are canonical, string-backed identities so that
// equality is a byte compare and so they can be used directly as map
// keys (DESIGN NOTES §9).
package key

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// TypeID is a compact, arena-scoped identifier assigned by ASM to a host
// symbol the first time it is observed. It is never persisted beyond one
// compilation pass.
type TypeID int

// Qualifier distinguishes otherwise-identical TypeKeys. It is the
// annotation's identity plus a canonicalized tuple of its literal
// arguments (nested annotations and class-literals are rendered
// recursively into the same literal string by ASM before reaching here).
type Qualifier struct {
	AnnotationFQN string
	Args          string
}

func (q Qualifier) String() string {
	if q.Args == "" {
		return "@" + q.AnnotationFQN
	}
	return "@" + q.AnnotationFQN + "(" + q.Args + ")"
}

// TypeKey is the canonical identity used for binding lookup: a qualified
// type name, its type arguments, nullability, and an optional Qualifier.
// Two TypeKeys are equal iff their canonical string representations are
// equal, which is also what diagnostics render.
type TypeKey struct {
	canonical string
	hash      uint64
}

// NewTypeKey builds a TypeKey from its structural components. typeArgs
// must already be canonicalized TypeKeys (generic parameters resolved by
// the host's type-resolution oracle).
func NewTypeKey(qualifiedName string, typeArgs []TypeKey, nullable bool, qualifier *Qualifier) TypeKey {
	var b strings.Builder
	b.WriteString(qualifiedName)
	if len(typeArgs) > 0 {
		b.WriteByte('<')
		for i, a := range typeArgs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	if nullable {
		b.WriteByte('?')
	}
	if qualifier != nil {
		b.WriteByte(' ')
		b.WriteString(qualifier.String())
	}
	canonical := b.String()
	return TypeKey{canonical: canonical, hash: fnvHash(canonical)}
}

// String renders the TypeKey in the stable textual form used in
// diagnostics and in keys-populated-<GraphName>.txt reports.
func (k TypeKey) String() string { return k.canonical }

// IsZero reports whether k is the zero TypeKey (never a valid binding key).
func (k TypeKey) IsZero() bool { return k.canonical == "" }

func fnvHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Wrapper records how a consumer receives a resolved value: directly, or
// through a deferred Provider/Lazy indirection. At most one of Provider,
// Lazy should be combined with ProviderOfLazy; ProviderOfLazy implies
// both Provider and Lazy semantics are present on the edge.
type Wrapper struct {
	Provider       bool
	Lazy           bool
	ProviderOfLazy bool
}

// Deferrable reports whether an edge carrying this wrapper may be broken
// as a cycle back-edge (spec.md §4.4.1 step 2).
func (w Wrapper) Deferrable() bool {
	return w.Provider || w.Lazy || w.ProviderOfLazy
}

func (w Wrapper) String() string {
	switch {
	case w.ProviderOfLazy:
		return "Provider<Lazy<_>>"
	case w.Provider:
		return "Provider<_>"
	case w.Lazy:
		return "Lazy<_>"
	default:
		return "_"
	}
}

// ContextualTypeKey is a TypeKey plus the wrapper under which a
// particular consumer requests it. The unwrapped Key is what
// participates in lookup; Wrapper and HasDefault only affect how the
// emitted code hands the value to the consumer.
type ContextualTypeKey struct {
	Key        TypeKey
	Wrapper    Wrapper
	HasDefault bool
}

func (c ContextualTypeKey) String() string {
	if c.Wrapper == (Wrapper{}) {
		return c.Key.String()
	}
	return strings.Replace(c.Wrapper.String(), "_", c.Key.String(), 1)
}

// ScopeKey is the identity of a user-declared scope marker type.
type ScopeKey struct {
	canonical string
}

// NewScopeKey builds a ScopeKey from the scope marker's qualified name.
func NewScopeKey(qualifiedName string) ScopeKey {
	return ScopeKey{canonical: qualifiedName}
}

// Unbounded is the reserved scope meaning "no scope": a new instance is
// produced for every request.
var Unbounded = ScopeKey{canonical: "<unbounded>"}

func (s ScopeKey) String() string { return s.canonical }

func (s ScopeKey) IsUnbounded() bool { return s == Unbounded || s.canonical == "" }

// MapKey is a typed key value attached to a multi-bound map contribution.
// Equality is structural: same key-type and same canonical literal.
type MapKey struct {
	KeyType string
	Literal string
}

func (m MapKey) String() string { return m.KeyType + "(" + m.Literal + ")" }

// SortTypeKeys returns a new slice of ks sorted by canonical string, used
// wherever deterministic ordering of a TypeKey collection is required
// (contribution lists, emitted field ordering, reports).
func SortTypeKeys(ks []TypeKey) []TypeKey {
	out := make([]TypeKey, len(ks))
	copy(out, ks)
	sort.Slice(out, func(i, j int) bool { return out[i].canonical < out[j].canonical })
	return out
}

// FormatOrdinal renders a stable, reproducible suffix for generated
// field/class names, e.g. "Foo_3" for the 3rd binding targeting Foo.
func FormatOrdinal(name string, ordinal int) string {
	return name + "_" + strconv.Itoa(ordinal)
}
