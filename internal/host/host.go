// Package host declares the narrow interfaces the core consumes from the
// surrounding host compiler frontend. These are the external
// collaborators spec.md §1 places out of scope: the typed symbol tree,
// generic-type resolution, and cross-module contribution discovery. The
// core never depends on a concrete frontend — only on these interfaces.
package host

import (
	"sort"
	"strconv"

	"github.com/metro-di/metro/internal/key"
)

// Visibility mirrors the host's declared visibility for a symbol.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityInternal
	VisibilityProtected
	VisibilityPrivate
)

// DeclKind distinguishes the shape of a host declaration as ASM needs to
// see it.
type DeclKind int

const (
	DeclKindClass DeclKind = iota
	DeclKindInterface
	DeclKindFunction
	DeclKindProperty
	DeclKindConstructor
)

// Literal is a constant value attached to an annotation argument: a
// string/int/bool, a class-literal (TypeKey), a nested annotation, or a
// list of literals. The host is responsible for fully resolving these
// before ASM sees them — the core never evaluates user expressions
// (spec.md §1 Non-goals).
type Literal interface {
	isLiteral()
	// Canonical renders the literal deterministically for use inside a
	// Qualifier's Args tuple or a MapKey's Literal.
	Canonical() string
}

type StringLiteral string

func (StringLiteral) isLiteral()          {}
func (l StringLiteral) Canonical() string { return string(l) }

type IntLiteral int64

func (IntLiteral) isLiteral()          {}
func (l IntLiteral) Canonical() string { return strconv.FormatInt(int64(l), 10) }

type BoolLiteral bool

func (BoolLiteral) isLiteral()          {}
func (l BoolLiteral) Canonical() string { return strconv.FormatBool(bool(l)) }

type ClassLiteral struct{ Type key.TypeKey }

func (ClassLiteral) isLiteral()          {}
func (l ClassLiteral) Canonical() string { return l.Type.String() }

type AnnotationLiteral struct{ Annotation Annotation }

func (AnnotationLiteral) isLiteral()          {}
func (l AnnotationLiteral) Canonical() string { return l.Annotation.Canonical() }

type ListLiteral []Literal

func (ListLiteral) isLiteral() {}
func (l ListLiteral) Canonical() string {
	out := "["
	for i, v := range l {
		if i > 0 {
			out += ", "
		}
		out += v.Canonical()
	}
	return out + "]"
}

// Annotation is a single annotation instance with its literal arguments,
// already resolved by the host (no expression evaluation happens here).
type Annotation struct {
	FQN  string
	Args map[string]Literal
}

// Canonical renders an annotation's arguments in a deterministic order so
// that equal annotations produce byte-identical Qualifier.Args strings.
func (a Annotation) Canonical() string {
	keys := make([]string, 0, len(a.Args))
	for k := range a.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k + "=" + a.Args[k].Canonical()
	}
	return out
}

// Get returns the named argument's literal, and whether it was present.
func (a Annotation) Get(name string) (Literal, bool) {
	v, ok := a.Args[name]
	return v, ok
}

// Param describes one parameter of a function/constructor as ASM needs
// it: its contextual type, whether it is assisted, and the raw
// annotations placed on it (so ASM can recognize @Assisted, @Provides,
// @Includes per spec.md §4.1).
type Param struct {
	Name        string
	Type        key.ContextualTypeKey
	Annotations []Annotation
	Span        key.Span
}

// Symbol is the uniform view over a host declaration (class, function,
// property, or constructor) ASM normalizes everything else from.
type Symbol struct {
	ID            key.TypeID
	Kind          DeclKind
	QualifiedName string
	Visibility    Visibility
	Span          key.Span
	Annotations   []Annotation

	// Function/property/constructor-only fields.
	Params     []Param
	ReturnKey  key.ContextualTypeKey
	HasBody    bool
	IsAbstract bool

	// Class/interface-only fields.
	Supertypes   []key.TypeKey
	IsLocal      bool
	IsAccessible bool
	// Members holds nested declarations (constructors, properties,
	// methods, nested factory/creator types) owned by this symbol.
	Members []key.TypeID
	// Owner is the enclosing class's TypeID for a member symbol, or -1
	// for a top-level symbol.
	Owner key.TypeID
}

func (s Symbol) Annotation(fqn string) (Annotation, bool) {
	for _, a := range s.Annotations {
		if a.FQN == fqn {
			return a, true
		}
	}
	return Annotation{}, false
}

// SymbolEnumerator enumerates the host's typed declarations that are
// potentially DI-relevant: classes/interfaces, functions, properties,
// and constructors, each with fully-resolved annotations and types.
type SymbolEnumerator interface {
	// Symbol resolves one TypeID to its Symbol, or false if unknown.
	Symbol(id key.TypeID) (Symbol, bool)
	// AllSymbols returns every TypeID in the current compilation unit
	// that carries at least one recognized annotation. Order is not
	// guaranteed to be stable; callers must sort before use.
	AllSymbols() []key.TypeID
}

// TypeOracle resolves supertype/subtype relationships and generic
// substitution, entirely owned by the host frontend.
type TypeOracle interface {
	Supertype(t key.TypeKey) (key.TypeKey, bool)
	IsSubtype(a, b key.TypeKey) bool
	Substitute(t key.TypeKey, params map[key.TypeKey]key.TypeKey) key.TypeKey
}

// ContributionHint is one (TypeId, ScopeKey) pair published by the host's
// cross-module index (e.g. synthetic marker files in a dedicated
// package, per spec.md §4.2). ModuleID identifies the compilation unit
// that published the hint, used as CA's primary stable-sort key.
type ContributionHint struct {
	TypeID   key.TypeID
	Scope    key.ScopeKey
	ModuleID string
}

// ContributionHintLookup is the abstract cross-module contribution
// index. Lookups are idempotent and safe to cache.
type ContributionHintLookup interface {
	HintsForScope(scope key.ScopeKey) []ContributionHint
}

