// Package validate implements the Graph Validator (GV, spec.md §4.4):
// it seals a BindingGraph built by internal/graph by ordering it,
// detecting cycles, breaking legal ones, and surfacing every semantic
// error it can find in one pass (collect-all, not fail-fast, spec.md
// §4.4.3). Grounded on the teacher's internal/dep_graph/cycles.go for
// SCC computation and on internal/checker/infer.go's pattern of
// accumulating []checker.Error across an entire pass before returning.
package validate

import (
	"sort"

	"github.com/metro-di/metro/internal/diag"
	"github.com/metro-di/metro/internal/graph"
	"github.com/metro-di/metro/internal/key"
)

// SealedGraph is GV's output: a BindingGraph with its bindings placed
// in a deterministic emission order, back-edges marked for the
// emitter's delegate-provider patching, and a stable ordinal assigned
// to every binding (spec.md §4.4.1 steps 5-6).
type SealedGraph struct {
	Graph *graph.BindingGraph
	// Order lists every BindingIndex in final emission order.
	Order []graph.BindingIndex
	// Ordinal maps a BindingIndex to its stable position in Order,
	// used to name emitted fields reproducibly.
	Ordinal map[graph.BindingIndex]int
	// BackEdges are the deferrable edges chosen to break an SCC,
	// implemented through provider/lazy indirection at emission time
	// (spec.md §4.4.1 step 4, §4.5.2).
	BackEdges map[graph.Edge]bool
}

// Validator seals BindingGraphs and validates them against spec.md
// §4.4.2. One Validator has no state of its own; callers may share it
// freely across graphs.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

// Seal runs the full sealing pipeline for g and reports every semantic
// violation it finds into diags. It always returns a SealedGraph (even
// when diags.HasErrors() becomes true) so callers can still inspect
// structure for better error messages; per spec.md §7 a graph with any
// error produces no emitted artifacts regardless.
func (v *Validator) Seal(g *graph.BindingGraph, diags *diag.Sink) *SealedGraph {
	adj := buildAdjacency(g)
	sccs := adj.findStronglyConnectedComponents()

	sealed := &SealedGraph{Graph: g, Ordinal: map[graph.BindingIndex]int{}, BackEdges: map[graph.Edge]bool{}}

	for _, scc := range sccs {
		v.applyCyclePolicy(g, adj, scc, sealed, diags)
	}

	for i, idx := range sealed.Order {
		sealed.Ordinal[idx] = i
	}

	v.validateScopes(g, diags)
	v.validateMultibindings(g, diags)
	v.validateAssisted(g, diags)
	v.validateMapKeys(g, diags)
	v.validateAliasCycles(g, diags)
	v.validateExtensionContracts(g, diags)

	return sealed
}

// applyCyclePolicy implements spec.md §4.4.1 step 4: decide whether an
// SCC is a legal cycle, and if so mark its internal deferrable edges
// as back-edges; otherwise report SELF_CYCLE/GRAPH_DEPENDENCY_CYCLE.
// Members are appended to sealed.Order in the teacher's "declaration
// order then name" deterministic tie-break (spec.md step 5).
func (v *Validator) applyCyclePolicy(g *graph.BindingGraph, adj *adjacency, scc []graph.BindingIndex, sealed *SealedGraph, diags *diag.Sink) {
	sortDeterministic(g, scc)

	if len(scc) == 1 {
		v0 := scc[0]
		exists, deferrable := adj.selfEdge(v0)
		if !exists {
			sealed.Order = append(sealed.Order, v0)
			return
		}
		if deferrable {
			for _, e := range adj.edges[v0] {
				if e.To == v0 {
					sealed.BackEdges[e] = true
				}
			}
			sealed.Order = append(sealed.Order, v0)
			return
		}
		diags.Report(diag.Diagnostic{
			Kind:        diag.KindSelfCycle,
			Severity:    diag.SeverityError,
			PrimarySpan: g.Bindings[v0].Span,
			Message:     g.Bindings[v0].Key.String() + " depends on itself without a deferred wrapper",
			Chain:       []key.TypeKey{g.Bindings[v0].Key},
		})
		sealed.Order = append(sealed.Order, v0)
		return
	}

	members := make(map[graph.BindingIndex]bool, len(scc))
	for _, v0 := range scc {
		members[v0] = true
	}
	if adj.anyDeferrableWithin(members) {
		for _, v0 := range scc {
			for _, e := range adj.edges[v0] {
				if members[e.To] && e.Deferrable {
					sealed.BackEdges[e] = true
				}
			}
		}
		sealed.Order = append(sealed.Order, scc...)
		return
	}

	chain := make([]key.TypeKey, 0, len(scc)+1)
	for _, v0 := range scc {
		chain = append(chain, g.Bindings[v0].Key)
	}
	chain = append(chain, g.Bindings[scc[0]].Key)
	diags.Report(diag.Diagnostic{
		Kind:        diag.KindGraphCycle,
		Severity:    diag.SeverityError,
		PrimarySpan: g.Bindings[scc[0]].Span,
		Message:     "illegal dependency cycle with no deferred edge to break it",
		Chain:       chain,
	})
	sealed.Order = append(sealed.Order, scc...)
}

// sortDeterministic orders an SCC's members by original declaration
// order, which BindingIndex already reflects (spec.md step 5 "prefer
// original declaration order then name" — BindingIndex assignment is
// itself unique per binding, so the name tie-break never applies).
func sortDeterministic(g *graph.BindingGraph, scc []graph.BindingIndex) {
	_ = g
	sort.Slice(scc, func(i, j int) bool { return scc[i] < scc[j] })
}

func (v *Validator) validateScopes(g *graph.BindingGraph, diags *diag.Sink) {
	for _, b := range g.Bindings {
		if b.Scope == nil || b.Scope.IsUnbounded() {
			continue
		}
		if !g.HasScope(*b.Scope) {
			diags.Report(diag.Diagnostic{
				Kind:        diag.KindScopeMismatch,
				Severity:    diag.SeverityError,
				PrimarySpan: b.Span,
				Message:     b.Key.String() + " is scoped to " + b.Scope.String() + ", which is not in this graph's scope set",
			})
		}
	}
}

func (v *Validator) validateMultibindings(g *graph.BindingGraph, diags *diag.Sink) {
	for _, b := range g.Bindings {
		if b.Kind != graph.KindMultiSet && b.Kind != graph.KindMultiMap {
			continue
		}
		if len(b.Contributors) == 0 && !b.AllowEmpty {
			diags.Report(diag.Diagnostic{
				Kind:        diag.KindEmptyMultibinding,
				Severity:    diag.SeverityError,
				PrimarySpan: b.Span,
				Message:     b.Key.String() + " has no contributors and does not allow an empty multi-binding",
			})
		}
	}
}

func (v *Validator) validateAssisted(g *graph.BindingGraph, diags *diag.Sink) {
	for _, b := range g.Bindings {
		if b.Kind != graph.KindAssistedFactory {
			continue
		}
		for _, p := range b.AssistedParams {
			if p.Type.Wrapper.Deferrable() {
				diags.Report(diag.Diagnostic{
					Kind:        diag.KindAssistedLazyWrap,
					Severity:    diag.SeverityError,
					PrimarySpan: p.Span,
					Message:     "assisted parameter " + p.Name + " may not be wrapped in Provider/Lazy",
				})
			}
		}
	}
}

func (v *Validator) validateMapKeys(g *graph.BindingGraph, diags *diag.Sink) {
	// keyTypesByValue tracks, across every MultiMap binding seen so far,
	// which MapKey.KeyType each value type's contributors used — a map
	// synthesizes a distinct composite TypeKey per key type (internal/
	// graph/multi.go mapKeyFor), so two differently-typed MapKey
	// contributions for the same value type land in two different
	// bindings here rather than the same Contributors slice, and can only
	// be caught by comparing across bindings (spec.md Invariant 5).
	keyTypesByValue := map[key.TypeKey]map[string]key.Span{}

	for _, b := range g.Bindings {
		if b.Kind != graph.KindMultiMap {
			continue
		}
		seen := map[string]bool{}
		for _, c := range b.Contributors {
			if c.MapKey == nil {
				continue
			}
			lit := c.MapKey.String()
			if seen[lit] {
				diags.Report(diag.Diagnostic{
					Kind:        diag.KindMultibindingKeyCollision,
					Severity:    diag.SeverityError,
					PrimarySpan: b.Span,
					Message:     "duplicate map key " + lit + " in multi-binding " + b.Key.String(),
				})
				continue
			}
			seen[lit] = true

			if b.ElementKey == (key.TypeKey{}) {
				continue
			}
			byType, ok := keyTypesByValue[b.ElementKey]
			if !ok {
				byType = map[string]key.Span{}
				keyTypesByValue[b.ElementKey] = byType
			}
			if _, ok := byType[c.MapKey.KeyType]; !ok {
				byType[c.MapKey.KeyType] = b.Span
			}
		}
	}

	mixed := make([]key.TypeKey, 0, len(keyTypesByValue))
	for valueKey, byType := range keyTypesByValue {
		if len(byType) >= 2 {
			mixed = append(mixed, valueKey)
		}
	}
	sortedMixed := key.SortTypeKeys(mixed)
	for _, valueKey := range sortedMixed {
		byType := keyTypesByValue[valueKey]
		types := make([]string, 0, len(byType))
		for kt := range byType {
			types = append(types, kt)
		}
		sort.Strings(types)
		diags.Report(diag.Diagnostic{
			Kind:        diag.KindMultibindingKeyCollision,
			Severity:    diag.SeverityError,
			PrimarySpan: byType[types[0]],
			Message:     "multi-binding for " + valueKey.String() + " mixes differently typed map keys",
		})
	}
}

func (v *Validator) validateAliasCycles(g *graph.BindingGraph, diags *diag.Sink) {
	for i, b := range g.Bindings {
		if b.Kind != graph.KindAlias {
			continue
		}
		visited := map[graph.BindingIndex]bool{graph.BindingIndex(i): true}
		cur := b.AliasTarget
		for {
			idx, ok := g.Lookup(cur)
			if !ok {
				break
			}
			if visited[idx] {
				diags.Report(diag.Diagnostic{
					Kind:        diag.KindAliasCycle,
					Severity:    diag.SeverityError,
					PrimarySpan: b.Span,
					Message:     "alias chain starting at " + b.Key.String() + " does not terminate",
				})
				break
			}
			next := g.Bindings[idx]
			if next.Kind != graph.KindAlias {
				break
			}
			visited[idx] = true
			cur = next.AliasTarget
		}
	}
}

func (v *Validator) validateExtensionContracts(g *graph.BindingGraph, diags *diag.Sink) {
	for _, idx := range g.ExtensionLinks {
		b := g.Bindings[idx]
		if b.Kind != graph.KindGraphExtensionLink {
			diags.Report(diag.Diagnostic{
				Kind:        diag.KindExtensionContract,
				Severity:    diag.SeverityError,
				PrimarySpan: b.Span,
				Message:     "extension link " + b.Key.String() + " is not a valid graph-extension factory",
			})
		}
	}
}
