// Package codegen implements the Emitter (EM, spec.md §4.5): given a
// sealed BindingGraph it produces deterministic generated source for
// the host's runtime. Grounded on the teacher's internal/codegen
// package, which splits code generation into a builder phase (an
// emission IR built from resolved declarations) and a printer phase
// (deterministic rendering of that IR) — codegen.Planner/
// codegen.Printer here. The IR is called a Plan rather than a Module
// since it describes one graph's generated factory, not a source file.
package codegen

import (
	"sort"
	"strconv"
	"strings"

	"github.com/metro-di/metro/internal/graph"
	"github.com/metro-di/metro/internal/key"
	"github.com/metro-di/metro/internal/validate"
)

// FieldKind distinguishes how a FieldPlan's value is produced, mirroring
// the BindingKind it was planned from closely enough for the printer to
// decide its call shape without re-inspecting the original Binding.
type FieldKind int

const (
	FieldProvides FieldKind = iota
	FieldConstructorInject
	FieldAlias
	FieldMultiSet
	FieldMultiMap
	FieldElementsIntoSet
	FieldAssistedFactory
	FieldMembersInjector
	FieldGraphExtensionLink
	FieldInstanceBinding
)

// FieldPlan is one emitted factory field: the private backing field for
// a single resolved binding, plus everything the printer needs to
// render its initializer and, if it participates in a cycle, its
// delegate-provider patch.
type FieldPlan struct {
	Name         string
	Key          key.TypeKey
	Kind         FieldKind
	DependsOn    []string
	AliasOf      string
	Contributors []ContributorPlan
	AllowEmpty   bool
}

// ContributorPlan is one element folded into a multi-binding field's
// initializer. A contributor is a Provides/Binds/ContributesBinding
// declaration, not itself a graph Binding, so it has no field of its
// own to reference — CallName names the synthesized call the printer
// emits for it instead.
type ContributorPlan struct {
	CallName     string
	MapKeyLit    string
	FromElements bool
}

// Patch is a `setDelegate`-shaped statement emitted after every field in
// an SCC has been declared, breaking the cycle through indirection
// (spec.md §4.5.2, §9 "delegate-provider patching").
type Patch struct {
	FieldName  string
	TargetName string
}

// AccessorPlan/InjectorPlan mirror the graph's own root requests.
type AccessorPlan struct {
	Name      string
	FieldName string
}

type InjectorPlan struct {
	Name      string
	FieldName string
}

// Plan is EM's intermediate representation for one graph: every
// resolved field in deterministic emission order, the back-edge patches
// that break its cycles, its root accessors/injectors, and its already-
// planned extension children (spec.md §4.6 "child graphs build+emit
// inside the parent's pipeline").
type Plan struct {
	GraphName string
	Fields    []FieldPlan
	Patches   []Patch
	Accessors []AccessorPlan
	Injectors []InjectorPlan
	Children  []*Plan
}

// Planner turns a SealedGraph into a Plan. It holds no state of its own
// and may be reused across graphs, mirroring the teacher's stateless-
// between-calls Builder shape.
type Planner struct{}

func NewPlanner() *Planner { return &Planner{} }

// Plan builds the emission IR for sealed alone. It does not recurse into
// extension children: the returned Plan's Children is empty until the
// orchestrator appends each child's own Plan.
func (pl *Planner) Plan(sealed *validate.SealedGraph) *Plan {
	g := sealed.Graph
	p := &Plan{GraphName: graphName(g.RootID)}

	fieldNames := make(map[graph.BindingIndex]string, len(sealed.Order))
	for _, idx := range sealed.Order {
		fieldNames[idx] = fieldName(g.Bindings[idx].Key)
	}

	depsOf := make(map[graph.BindingIndex][]graph.BindingIndex)
	for _, e := range g.Edges {
		if sealed.BackEdges[e] {
			continue
		}
		depsOf[e.From] = append(depsOf[e.From], e.To)
	}

	for _, idx := range sealed.Order {
		b := g.Bindings[idx]
		fp := FieldPlan{
			Name:       fieldNames[idx],
			Key:        b.Key,
			Kind:       fieldKindOf(b.Kind),
			AllowEmpty: b.AllowEmpty,
		}
		deps := depsOf[idx]
		sort.Slice(deps, func(i, j int) bool { return fieldNames[deps[i]] < fieldNames[deps[j]] })
		for _, d := range deps {
			fp.DependsOn = append(fp.DependsOn, fieldNames[d])
		}
		if b.Kind == graph.KindAlias {
			if aliasIdx, ok := g.Lookup(b.AliasTarget); ok {
				fp.AliasOf = fieldName(g.Bindings[aliasIdx].Key)
			} else {
				fp.AliasOf = fieldName(b.AliasTarget)
			}
		}
		for _, c := range b.Contributors {
			cp := ContributorPlan{FromElements: c.FromElements, CallName: contributorCallName(c.Origin)}
			if c.MapKey != nil {
				cp.MapKeyLit = c.MapKey.String()
			}
			fp.Contributors = append(fp.Contributors, cp)
		}
		p.Fields = append(p.Fields, fp)
	}

	for e, marked := range sealed.BackEdges {
		if !marked {
			continue
		}
		p.Patches = append(p.Patches, Patch{FieldName: fieldNames[e.From], TargetName: fieldNames[e.To]})
	}
	sort.Slice(p.Patches, func(i, j int) bool {
		if p.Patches[i].FieldName != p.Patches[j].FieldName {
			return p.Patches[i].FieldName < p.Patches[j].FieldName
		}
		return p.Patches[i].TargetName < p.Patches[j].TargetName
	})

	for _, a := range g.Accessors {
		if idx, ok := g.Lookup(a.Want.Key); ok {
			p.Accessors = append(p.Accessors, AccessorPlan{Name: a.Name[strings.LastIndex(a.Name, ".")+1:], FieldName: fieldName(g.Bindings[idx].Key)})
		}
	}
	for _, inj := range g.Injectors {
		if idx, ok := g.Lookup(inj.Target); ok {
			p.Injectors = append(p.Injectors, InjectorPlan{Name: inj.Name[strings.LastIndex(inj.Name, ".")+1:], FieldName: fieldName(g.Bindings[idx].Key)})
		}
	}

	// Extension children are sealed and planned by the orchestrator, one
	// pipeline stage at a time (spec.md §4.6): it appends each child's
	// Plan to p.Children itself once that child's own Seal/Plan call
	// returns, rather than this call recursing into unsealed children.
	return p
}

// contributorCallName derives a stable call name for a multi-binding
// contributor from its origin TypeID, the only identity a Contributor
// carries for the declaration that produced it.
func contributorCallName(origin key.TypeID) string {
	return "provide_" + strconv.Itoa(int(origin))
}

func fieldKindOf(k graph.BindingKind) FieldKind {
	switch k {
	case graph.KindProvides:
		return FieldProvides
	case graph.KindConstructorInject:
		return FieldConstructorInject
	case graph.KindAlias:
		return FieldAlias
	case graph.KindMultiSet:
		return FieldMultiSet
	case graph.KindMultiMap:
		return FieldMultiMap
	case graph.KindElementsIntoSet:
		return FieldElementsIntoSet
	case graph.KindAssistedFactory:
		return FieldAssistedFactory
	case graph.KindMembersInjector:
		return FieldMembersInjector
	case graph.KindGraphExtensionLink:
		return FieldGraphExtensionLink
	case graph.KindInstanceBinding:
		return FieldInstanceBinding
	default:
		return FieldProvides
	}
}

func graphName(id key.TypeID) string {
	return "graph_" + strconv.Itoa(int(id))
}

// fieldName derives a deterministic, valid identifier for a binding's
// backing field from its canonical TypeKey string. TypeKeys are unique
// per graph (BindingGraph.add dedups by Key), so the derived name is
// unique too.
func fieldName(k key.TypeKey) string {
	return "f" + sanitize(k.String())
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
