// Package graph implements the Graph Builder (GB, spec.md §4.3): from a
// graph root it produces a BindingGraph by resolving every reachable
// request to a Binding against the population order and lookup rules
// 1-6. Sealing (cycle detection, ordering, indexing) belongs to
// internal/validate; this package only builds and exposes the raw,
// unsealed adjacency.
package graph

import (
	"github.com/metro-di/metro/internal/key"
	"github.com/metro-di/metro/internal/symbol"
)

// BindingKind distinguishes the shape of a resolved Binding, mirroring
// the variants spec.md §3 lists as the Binding sum type. Grounded on
// the teacher's internal/ast declaration hierarchy, which represents
// its node variants the same way: one Kind enum plus kind-specific
// fields on a single struct rather than a Go type-switch interface,
// since every Binding here is POD and never needs method dispatch.
type BindingKind int

const (
	KindProvides BindingKind = iota
	KindConstructorInject
	KindAlias
	KindMultiSet
	KindMultiMap
	KindElementsIntoSet
	KindAssistedFactory
	KindMembersInjector
	KindGraphExtensionLink
	KindInstanceBinding
)

func (k BindingKind) String() string {
	switch k {
	case KindProvides:
		return "Provides"
	case KindConstructorInject:
		return "ConstructorInject"
	case KindAlias:
		return "Alias"
	case KindMultiSet:
		return "MultiSet"
	case KindMultiMap:
		return "MultiMap"
	case KindElementsIntoSet:
		return "ElementsIntoSet"
	case KindAssistedFactory:
		return "AssistedFactory"
	case KindMembersInjector:
		return "MembersInjector"
	case KindGraphExtensionLink:
		return "GraphExtensionLink"
	case KindInstanceBinding:
		return "InstanceBinding"
	default:
		return "Unknown"
	}
}

// BindingIndex is a Binding's position in a BindingGraph's bindings
// slice; it is the stable ordinal GV assigns names from after sealing
// (spec.md §4.4.1 rule 6).
type BindingIndex int

// Contributor is one element of a multi-binding (spec.md §4.3 rule 5):
// a Provides/Binds/ElementsIntoSet declaration plus, for maps, its key.
type Contributor struct {
	Origin key.TypeID
	Param  []symbol.Param
	MapKey *key.MapKey
	// FromElements marks an ElementsIntoSet contributor, whose provider
	// returns a collection to be flattened rather than a single element.
	FromElements bool
	// ElementKey is set for a class-based contributor (@ContributesIntoSet/
	// @ContributesIntoMap, or a multi-bound @Binds) whose element is not
	// produced inline by a provider: it names the contributed class's own
	// TypeKey so the builder can resolve it into the graph the same way any
	// other requested type is resolved, rather than assuming its
	// dependencies are already covered by Param.
	ElementKey key.TypeKey
	Span       key.Span
}

// Binding is a single resolved node of a BindingGraph: a tagged union
// over BindingKind, grounded on the teacher's ast.Decl node shape
// (one struct, a Kind discriminant, fields used per-kind).
type Binding struct {
	Kind BindingKind
	Key  key.TypeKey
	Span key.Span

	// Provides/ConstructorInject/AssistedFactory/MembersInjector: the
	// declaring TypeID and its dependency parameters.
	Origin key.TypeID
	Params []symbol.Param
	Scope  *key.ScopeKey

	// Alias: the target this binding forwards to without emitting code
	// of its own (spec.md §4.3 "Alias resolution").
	AliasTarget key.TypeKey

	// MultiSet/MultiMap/ElementsIntoSet: every contributor in scope, in
	// the order GB appended them; they are not re-sorted before sealing.
	Contributors []Contributor
	AllowEmpty   bool
	// ElementKey is the group's declared element type (Set<T>'s T) or
	// value type (Map<K,V>'s V). Distinct MultiMap bindings sharing the
	// same ElementKey but different contributor MapKey.KeyType values are
	// the "differently typed MapKeys for the same value type" case GV
	// rejects (spec.md Invariant 5).
	ElementKey key.TypeKey

	// AssistedFactory: the target class this factory constructs and
	// its assisted (non-injected) parameters.
	TargetClassID  key.TypeID
	AssistedParams []symbol.Param

	// MembersInjector: the sites to populate, supertype-first.
	MemberSites []symbol.MemberSite

	// GraphExtensionLink: the child graph's root TypeID.
	ChildRootID key.TypeID

	// InstanceBinding: a factory-supplied value; no dependencies.
	FromFactoryParam bool
}

// Edge is one dependency arrow in the unsealed adjacency: From depends
// on To, optionally through a deferrable wrapper (spec.md §4.4.1 rule
// 2). GV turns these into the sealed graph's adjacency during cycle
// analysis.
type Edge struct {
	From       BindingIndex
	To         BindingIndex
	Wrapper    key.Wrapper
	Deferrable bool
}
