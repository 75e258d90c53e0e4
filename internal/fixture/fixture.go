// Package fixture is an in-memory host implementation built from Go
// struct literals instead of a real frontend. It plays the role the
// teacher's internal/test_util and parser.ParseLibFiles play for the
// checker: a way to build a small typed tree by hand and hand it to the
// pipeline under test, without lexing anything.
package fixture

import (
	"sort"

	"github.com/metro-di/metro/internal/host"
	"github.com/metro-di/metro/internal/key"
)

// Enumerator is an in-memory host.SymbolEnumerator: a flat table of
// symbols keyed by TypeID, populated by Add before the Model ever sees
// it.
type Enumerator struct {
	symbols map[key.TypeID]host.Symbol
}

func NewEnumerator() *Enumerator {
	return &Enumerator{symbols: map[key.TypeID]host.Symbol{}}
}

// Add registers sym under its own ID and returns it, so call sites can
// build a symbol and register it in one expression.
func (e *Enumerator) Add(sym host.Symbol) host.Symbol {
	e.symbols[sym.ID] = sym
	return sym
}

func (e *Enumerator) Symbol(id key.TypeID) (host.Symbol, bool) {
	s, ok := e.symbols[id]
	return s, ok
}

func (e *Enumerator) AllSymbols() []key.TypeID {
	ids := make([]key.TypeID, 0, len(e.symbols))
	for id := range e.symbols {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Oracle is an in-memory host.TypeOracle: supertype/subtype facts are
// declared explicitly rather than derived, since there is no real type
// checker behind this fixture.
type Oracle struct {
	supertypes map[key.TypeKey]key.TypeKey
	subtypes   map[key.TypeKey]map[key.TypeKey]bool
}

func NewOracle() *Oracle {
	return &Oracle{
		supertypes: map[key.TypeKey]key.TypeKey{},
		subtypes:   map[key.TypeKey]map[key.TypeKey]bool{},
	}
}

// SetSupertype records t's direct supertype.
func (o *Oracle) SetSupertype(t, super key.TypeKey) {
	o.supertypes[t] = super
}

// AllowSubtype records that a is a subtype of b, independent of any
// Supertype fact (a fixture may need `IsSubtype` true without modeling
// a full supertype chain).
func (o *Oracle) AllowSubtype(a, b key.TypeKey) {
	if o.subtypes[a] == nil {
		o.subtypes[a] = map[key.TypeKey]bool{}
	}
	o.subtypes[a][b] = true
}

func (o *Oracle) Supertype(t key.TypeKey) (key.TypeKey, bool) {
	s, ok := o.supertypes[t]
	return s, ok
}

func (o *Oracle) IsSubtype(a, b key.TypeKey) bool {
	if a == b {
		return true
	}
	return o.subtypes[a] != nil && o.subtypes[a][b]
}

// Substitute looks t's substitution up in params, or returns t
// unchanged if it names no type parameter.
func (o *Oracle) Substitute(t key.TypeKey, params map[key.TypeKey]key.TypeKey) key.TypeKey {
	if sub, ok := params[t]; ok {
		return sub
	}
	return t
}

// HintLookup is an in-memory host.ContributionHintLookup: a flat list
// of hints, filtered by scope on lookup the same way the real
// cross-module index would.
type HintLookup struct {
	hints []host.ContributionHint
}

func NewHintLookup(hints ...host.ContributionHint) *HintLookup {
	return &HintLookup{hints: hints}
}

func (h *HintLookup) HintsForScope(scope key.ScopeKey) []host.ContributionHint {
	out := make([]host.ContributionHint, 0, len(h.hints))
	for _, hint := range h.hints {
		if hint.Scope == scope {
			out = append(out, hint)
		}
	}
	return out
}

// Key builds the TypeKey for a plain, non-generic, non-nullable,
// unqualified named type, the common case in test fixtures.
func Key(name string) key.TypeKey {
	return key.NewTypeKey(name, nil, false, nil)
}

// Ctx wraps Key(name) as an unwrapped ContextualTypeKey.
func Ctx(name string) key.ContextualTypeKey {
	return key.ContextualTypeKey{Key: Key(name)}
}

// Provider wraps Key(name) as a Provider<T> request.
func Provider(name string) key.ContextualTypeKey {
	return key.ContextualTypeKey{Key: Key(name), Wrapper: key.Wrapper{Provider: true}}
}

// Lazy wraps Key(name) as a Lazy<T> request.
func Lazy(name string) key.ContextualTypeKey {
	return key.ContextualTypeKey{Key: Key(name), Wrapper: key.Wrapper{Lazy: true}}
}

// Span returns a fixed, non-zero span distinct from key.DefaultSpan, so
// assertions that compare spans can tell a fixture-supplied span apart
// from one the core synthesized itself.
func Span(line int) key.Span {
	loc := key.Location{Line: line, Column: 1}
	return key.NewSpan(loc, loc, 0)
}

func ClassArg(k key.TypeKey) host.Literal       { return host.ClassLiteral{Type: k} }
func BoolArg(b bool) host.Literal               { return host.BoolLiteral(b) }
func StringArg(s string) host.Literal           { return host.StringLiteral(s) }
func ListArg(items ...host.Literal) host.Literal { return host.ListLiteral(items) }

// Ann builds a resolved host.Annotation, as the host would hand it to
// ASM after evaluating the user's annotation arguments.
func Ann(fqn string, args map[string]host.Literal) host.Annotation {
	return host.Annotation{FQN: fqn, Args: args}
}
