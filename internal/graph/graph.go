package graph

import (
	"github.com/metro-di/metro/internal/diag"
	"github.com/metro-di/metro/internal/key"
)

// BindingGraph is GB's output: every Binding reached from a graph
// root's requests, plus the unsealed edge list between them. It is
// structurally the teacher's dep_graph.DepGraph generalized from
// (declaration, name-binding) pairs to (Binding, TypeKey) pairs: a
// slice of nodes indexed by a stable ID, plus a lookup map, plus an
// edge list built alongside it.
type BindingGraph struct {
	RootID key.TypeID
	Scopes set
	Parent *BindingGraph

	IsExtendable bool

	Bindings []Binding
	byKey    map[key.TypeKey]BindingIndex
	Edges    []Edge

	Accessors []AccessorRequest
	Injectors []InjectorRequest

	// ExtensionLinks lists every GraphExtensionLink binding's index, so
	// the orchestrator can build each child graph in turn.
	ExtensionLinks []BindingIndex
	// Children holds each extension's already-built child BindingGraph,
	// in the same order as ExtensionLinks, so the orchestrator can seal
	// and emit them between this graph's GB and EM stages without
	// rebuilding (spec.md §4.6).
	Children []*BindingGraph
}

type set = map[key.ScopeKey]struct{}

// AccessorRequest is one root request surfaced by a no-parameter
// accessor on the graph type (spec.md §4.4.2).
type AccessorRequest struct {
	Name string
	Want key.ContextualTypeKey
	Span key.Span
}

// InjectorRequest is one inject(target) method on the graph type.
type InjectorRequest struct {
	Name   string
	Target key.TypeKey
	Span   key.Span
}

func newBindingGraph(rootID key.TypeID, scopes []key.ScopeKey, parent *BindingGraph, extendable bool) *BindingGraph {
	s := make(set, len(scopes))
	for _, sc := range scopes {
		s[sc] = struct{}{}
	}
	return &BindingGraph{
		RootID:       rootID,
		Scopes:       s,
		Parent:       parent,
		IsExtendable: extendable,
		byKey:        map[key.TypeKey]BindingIndex{},
	}
}

// Lookup returns the Binding bound to k in this graph, searching
// ancestors recursively (spec.md §4.3 "against the current graph (then
// parent, recursively)").
func (g *BindingGraph) Lookup(k key.TypeKey) (BindingIndex, bool) {
	if idx, ok := g.byKey[k]; ok {
		return idx, true
	}
	if g.Parent != nil {
		return g.Parent.Lookup(k)
	}
	return 0, false
}

// Binding returns the Binding at idx in this graph's own Bindings
// slice. An idx that Lookup found in an ancestor graph indexes that
// ancestor's slice and is not translated here.
func (g *BindingGraph) Binding(idx BindingIndex) Binding {
	return g.Bindings[idx]
}

// HasScope reports whether sc is in this graph's scope set or any
// ancestor's (spec.md §4.4.2 "Scope compatibility").
func (g *BindingGraph) HasScope(sc key.ScopeKey) bool {
	if _, ok := g.Scopes[sc]; ok {
		return true
	}
	if g.Parent != nil {
		return g.Parent.HasScope(sc)
	}
	return false
}

func (g *BindingGraph) add(b Binding) BindingIndex {
	if existing, ok := g.byKey[b.Key]; ok {
		return existing
	}
	idx := BindingIndex(len(g.Bindings))
	g.Bindings = append(g.Bindings, b)
	g.byKey[b.Key] = idx
	return idx
}

func (g *BindingGraph) addEdge(from, to BindingIndex, w key.Wrapper) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Wrapper: w, Deferrable: w.Deferrable()})
}

func (g *BindingGraph) reportMissing(d *diag.Sink, want key.ContextualTypeKey, span key.Span, chain []key.TypeKey) {
	chain = append(append([]key.TypeKey{}, chain...), want.Key)
	msg := "no binding for " + want.Key.String()
	d.Report(diag.Diagnostic{
		Kind:        diag.KindMissingBinding,
		Severity:    diag.SeverityError,
		PrimarySpan: span,
		Message:     msg,
		Chain:       chain,
	})
}
