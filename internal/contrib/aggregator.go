// Package contrib implements the Contribution Aggregator (CA, spec.md
// §4.2): for each ScopeKey referenced by any graph being built, produce
// a deterministic list of Contributions drawn from the current and
// upstream compilation units, with `replaces`/`excludes` resolved.
//
// Grounded on the teacher's internal/checker/package_registry.go
// (module-scoped symbol aggregation with stable ordering) and on
// internal/dep_graph's ordered-map-backed deterministic iteration,
// using the same github.com/tidwall/btree dependency the teacher
// already carries for that purpose.
package contrib

import (
	"sort"
	"sync"

	"github.com/metro-di/metro/internal/host"
	"github.com/metro-di/metro/internal/key"
	"github.com/metro-di/metro/internal/set"
	"github.com/metro-di/metro/internal/symbol"
	"github.com/tidwall/btree"
)

// Contribution is a binding or supertype declaration contributed to a
// specific scope, after replaces/excludes resolution (spec.md §3).
type Contribution struct {
	OriginID  key.TypeID
	ModuleID  string
	FQN       string
	Scope     key.ScopeKey
	To        *symbol.ContributesToDecl
	Binding   *symbol.ContributesBindingDecl
	Container *symbol.BindingContainerDecl
	Replaces  set.Set[key.TypeID]
}

// Aggregator is CA. One Aggregator is built per Model and shared by
// every graph pipeline built from it; its per-scope cache is populated
// once and is safe to read concurrently once populated (spec.md §5).
type Aggregator struct {
	model *symbol.Model
	hints host.ContributionHintLookup

	mu    sync.Mutex
	cache map[key.ScopeKey][]Contribution
}

func NewAggregator(model *symbol.Model, hints host.ContributionHintLookup) *Aggregator {
	return &Aggregator{model: model, hints: hints, cache: map[key.ScopeKey][]Contribution{}}
}

// rawForScope computes (and caches) the full, excludes-unaware
// contribution list for one scope: gather -> filter by scope -> resolve
// replaces -> dedupe -> stable sort.
func (a *Aggregator) rawForScope(scope key.ScopeKey) []Contribution {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cs, ok := a.cache[scope]; ok {
		return cs
	}

	var candidates btree.Map[key.TypeID, Contribution]
	for _, hint := range a.hints.HintsForScope(scope) {
		if hint.Scope != scope {
			continue
		}
		if d, ok := a.model.ContributesTo(hint.TypeID); ok && d.Scope == scope {
			candidates.Set(hint.TypeID, Contribution{
				OriginID: hint.TypeID,
				ModuleID: hint.ModuleID,
				FQN:      d.TypeKey.String(),
				Scope:    scope,
				To:       d,
				Replaces: set.FromSlice(d.Replaces),
			})
			continue
		}
		if d, ok := a.model.ContributesBinding(hint.TypeID); ok && d.Scope == scope {
			candidates.Set(hint.TypeID, Contribution{
				OriginID: hint.TypeID,
				ModuleID: hint.ModuleID,
				FQN:      d.ClassKey.String(),
				Scope:    scope,
				Binding:  d,
				Replaces: set.FromSlice(d.Replaces),
			})
		}
	}

	// Transitive closure over every gathered contribution's Replaces set,
	// independent of whether the replaced TypeID is itself a surviving
	// candidate (spec.md §4.2 "compute the transitive replaces closure").
	replaced := set.NewSet[key.TypeID]()
	frontier := []key.TypeID{}
	iter := candidates.Iter()
	for ok := iter.First(); ok; ok = iter.Next() {
		for id := range iter.Value().Replaces {
			if !replaced.Contains(id) {
				replaced.Add(id)
				frontier = append(frontier, id)
			}
		}
	}
	for len(frontier) > 0 {
		id := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if c, ok := candidates.Get(id); ok {
			for rid := range c.Replaces {
				if !replaced.Contains(rid) {
					replaced.Add(rid)
					frontier = append(frontier, rid)
				}
			}
		}
	}

	out := make([]Contribution, 0, candidates.Len())
	outIter := candidates.Iter()
	for ok := outIter.First(); ok; ok = outIter.Next() {
		if !replaced.Contains(outIter.Key()) {
			out = append(out, outIter.Value())
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ModuleID != out[j].ModuleID {
			return out[i].ModuleID < out[j].ModuleID
		}
		return out[i].FQN < out[j].FQN
	})

	a.cache[scope] = out
	return out
}

// ForGraph returns the deterministic contribution list for one graph:
// the scope's raw contributions, with explicit bindingContainers merged
// in and any excluded TypeIDs removed (spec.md §4.2 last two steps).
// Duplicate-binding detection for TypeKeys that collide without a
// replaces/excludes mediation is left to GV, not CA (spec.md §4.2 last
// sentence).
func (a *Aggregator) ForGraph(scope key.ScopeKey, bindingContainers []key.TypeID, excludes []key.TypeID) []Contribution {
	raw := a.rawForScope(scope)
	excl := set.FromSlice(excludes)

	out := make([]Contribution, 0, len(raw)+len(bindingContainers))
	for _, c := range raw {
		if !excl.Contains(c.OriginID) {
			out = append(out, c)
		}
	}

	seen := set.NewSet[key.TypeID]()
	for _, c := range out {
		seen.Add(c.OriginID)
	}
	var extra []key.TypeID
	stack := append([]key.TypeID{}, bindingContainers...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen.Contains(id) || excl.Contains(id) {
			continue
		}
		seen.Add(id)
		extra = append(extra, id)
		if container, ok := a.model.BindingContainer(id); ok {
			for _, inc := range container.Includes {
				if includedID, ok := a.model.ResolveKey(inc); ok {
					stack = append(stack, includedID)
				}
			}
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, id := range extra {
		if container, ok := a.model.BindingContainer(id); ok {
			out = append(out, Contribution{OriginID: id, Container: container, Scope: scope})
		}
	}
	return out
}
