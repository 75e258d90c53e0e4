package graph

import (
	"github.com/metro-di/metro/internal/contrib"
	"github.com/metro-di/metro/internal/diag"
	"github.com/metro-di/metro/internal/key"
	"github.com/metro-di/metro/internal/symbol"
)

// Builder is GB: it turns a graph root TypeID into a BindingGraph by
// following the population order and lookup rules of spec.md §4.3.
// One Builder is shared across every graph in a compilation (it holds
// no per-graph state of its own).
type Builder struct {
	model *symbol.Model
	agg   *contrib.Aggregator
	diags *diag.Sink
}

func NewBuilder(model *symbol.Model, agg *contrib.Aggregator, diags *diag.Sink) *Builder {
	return &Builder{model: model, agg: agg, diags: diags}
}

// providerSource is a single candidate binding definition gathered from
// the graph's own declarations, its binding containers, or contributed
// modules — the union lookup rules 1/2 search over.
type providerSource struct {
	provides *symbol.ProvidesDecl
	binds    *symbol.BindsDecl
	origin   key.TypeID
}

// putSource installs src for k, reporting a DuplicateBinding diagnostic
// when a different declaration already claims the same TypeKey (spec.md
// §4.4.2 "two non-multi bindings for the same TypeKey ... error") rather
// than silently letting the later declaration win.
func putSource(sources map[key.TypeKey]providerSource, diags *diag.Sink, k key.TypeKey, src providerSource, span key.Span) {
	if existing, ok := sources[k]; ok && existing.origin != src.origin {
		diags.Errorf(diag.KindDuplicateBinding, span, "duplicate binding for %s", k.String())
		return
	}
	sources[k] = src
}

type request struct {
	want       key.ContextualTypeKey
	span       key.Span
	chain      []key.TypeKey
	isInjector bool
}

// Build constructs the BindingGraph for root, resolving every request
// reached by the population order: accessors, injectors, providers
// (own + container + contributed), constructor-injected classes,
// assisted factories, then extension links. parent is nil for a
// top-level graph.
func (b *Builder) Build(root key.TypeID, parent *BindingGraph) *BindingGraph {
	decl, ok := b.model.GraphRoot(root)
	if !ok {
		return nil
	}

	scopes := append([]key.ScopeKey{decl.Scope}, decl.AdditionalScopes...)
	g := newBindingGraph(root, scopes, parent, decl.IsExtendable)

	sources := map[key.TypeKey]providerSource{}
	registerProvides(sources, b.diags, decl.Provides)
	registerBinds(sources, b.diags, decl.Binds)

	containerIDs := make([]key.TypeID, 0, len(decl.BindingContainers))
	for _, ck := range decl.BindingContainers {
		if cid, ok := b.model.ResolveKey(ck); ok {
			containerIDs = append(containerIDs, cid)
		}
	}

	multi := newMultiIndex()
	for _, mb := range decl.Multibinds {
		multi.declareMultibinds(mb.ElementKey, mb.IsMap, mb.AllowEmpty)
	}
	for _, p := range decl.Provides {
		multi.addProvidesContribution(p, p.ID)
	}
	for _, bd := range decl.Binds {
		multi.addBindsContribution(bd, bd.ID)
	}
	for _, scope := range scopes {
		for _, c := range b.agg.ForGraph(scope, containerIDs, decl.Excludes) {
			b.absorbContribution(sources, multi, c)
		}
	}

	if decl.Factory != nil {
		for _, p := range decl.Factory.InstanceParams {
			switch {
			case p.ProvidesInstance:
				g.add(Binding{Kind: KindInstanceBinding, Key: p.Type.Key, Span: p.Span, FromFactoryParam: true})
			case p.Includes:
				if cid, ok := b.model.ResolveKey(p.Type.Key); ok {
					if cdecl, ok := b.model.BindingContainer(cid); ok {
						registerProvides(sources, b.diags, cdecl.Provides)
						registerBinds(sources, b.diags, cdecl.Binds)
						for _, p := range cdecl.Provides {
							multi.addProvidesContribution(p, p.ID)
						}
						for _, bd := range cdecl.Binds {
							multi.addBindsContribution(bd, bd.ID)
						}
					}
				}
			}
		}
	}

	var frontier []request
	for _, a := range decl.Accessors {
		g.Accessors = append(g.Accessors, AccessorRequest{Name: a.Name, Want: a.Want, Span: a.Span})
		frontier = append(frontier, request{want: a.Want, span: a.Span})
	}
	for _, inj := range decl.Injectors {
		g.Injectors = append(g.Injectors, InjectorRequest{Name: inj.Name, Target: inj.Target, Span: inj.Span})
		frontier = append(frontier, request{want: key.ContextualTypeKey{Key: inj.Target}, span: inj.Span, isInjector: true})
	}

	seen := map[key.TypeKey]bool{}
	for len(frontier) > 0 {
		r := frontier[0]
		frontier = frontier[1:]
		if seen[r.want.Key] {
			continue
		}
		seen[r.want.Key] = true
		if _, ok := g.Lookup(r.want.Key); ok {
			continue
		}
		frontier = append(frontier, b.resolve(g, sources, multi, r)...)
	}

	for _, extID := range decl.Extensions {
		b.linkExtension(g, extID)
	}
	wireEdges(g)
	return g
}

// linkExtension builds the child graph for a nested @GraphExtension
// member and records a GraphExtensionLink binding so the orchestrator
// can find and emit it between this graph's GB and EM stages (spec.md
// §4.6 "child graphs are built and emitted in the middle of their
// parent's pipeline").
func (b *Builder) linkExtension(g *BindingGraph, extID key.TypeID) {
	ext, ok := b.model.GraphExtension(extID)
	if !ok {
		return
	}
	child := b.Build(extID, g)
	idx := g.add(Binding{Kind: KindGraphExtensionLink, Key: ext.TypeKey, Origin: extID, ChildRootID: extID})
	g.ExtensionLinks = append(g.ExtensionLinks, idx)
	g.Children = append(g.Children, child)
}

func registerProvides(sources map[key.TypeKey]providerSource, diags *diag.Sink, decls []symbol.ProvidesDecl) {
	for i := range decls {
		d := decls[i]
		if d.IntoSet || d.IntoMap || d.ElementsIntoSet {
			continue
		}
		putSource(sources, diags, d.ReturnKey.Key, providerSource{provides: &d, origin: d.ID}, d.Span)
	}
}

func registerBinds(sources map[key.TypeKey]providerSource, diags *diag.Sink, decls []symbol.BindsDecl) {
	for i := range decls {
		d := decls[i]
		if d.IntoSet || d.IntoMap {
			continue
		}
		putSource(sources, diags, d.ToKey.Key, providerSource{binds: &d, origin: d.ID}, d.Span)
	}
}

// resolve implements lookup rules 1-6 for one request, returning any
// newly-discovered dependency requests to enqueue.
func (b *Builder) resolve(g *BindingGraph, sources map[key.TypeKey]providerSource, multi *multiIndex, r request) []request {
	want := r.want
	k := want.Key

	// Rule 1/2: explicit Provides/Binds, own or contributed.
	if src, ok := sources[k]; ok {
		if src.provides != nil {
			return b.addProvides(g, *src.provides, r.chain)
		}
		return b.addBinds(g, *src.binds, r.chain)
	}

	// Rule 5: multi-bindings.
	if mg, ok := multi.lookup(k); ok {
		return b.addMulti(g, k, mg, r.chain)
	}

	// Rule 3: constructor injection, or the paired assisted-factory
	// interface for a class with assisted parameters (spec.md §4.3
	// population order "assisted factories", synthesized on demand here
	// rather than eagerly since a factory is only ever reached by a
	// request for its own interface TypeKey).
	if id, ok := b.model.ResolveKey(k); ok {
		if target, ok := b.model.InjectTarget(id); ok {
			return b.addConstructorInject(g, target, r)
		}
		if af, ok := b.model.AssistedFactory(id); ok {
			return b.addAssistedFactory(g, af, r.chain)
		}
	}

	// Injector requests resolve to a MembersInjector directly, without
	// requiring the target to also be constructor-injectable.
	if r.isInjector {
		return b.addMembersInjector(g, k, r.chain)
	}

	g.reportMissing(b.diags, want, r.span, r.chain)
	return nil
}

func (b *Builder) addProvides(g *BindingGraph, d symbol.ProvidesDecl, chain []key.TypeKey) []request {
	g.add(Binding{Kind: KindProvides, Key: d.ReturnKey.Key, Span: d.Span, Origin: d.ID, Params: d.Params, Scope: d.Scope})
	return enqueueDeps(d.Params, d.ReturnKey.Key, chain)
}

func (b *Builder) addBinds(g *BindingGraph, d symbol.BindsDecl, chain []key.TypeKey) []request {
	g.add(Binding{Kind: KindAlias, Key: d.ToKey.Key, Span: d.Span, AliasTarget: d.FromKey, Scope: d.Scope})
	nextChain := append(append([]key.TypeKey{}, chain...), d.ToKey.Key)
	return []request{{want: key.ContextualTypeKey{Key: d.FromKey}, span: d.Span, chain: nextChain}}
}

func (b *Builder) addConstructorInject(g *BindingGraph, t *symbol.InjectTarget, r request) []request {
	g.add(Binding{Kind: KindConstructorInject, Key: t.ReturnKey, Span: t.Span, Origin: t.ID, Params: t.Params, Scope: t.Scope, MemberSites: t.MembersToInject})
	out := enqueueDeps(t.Params, t.ReturnKey, r.chain)
	for _, ms := range t.MembersToInject {
		out = append(out, request{want: ms.Type, span: ms.Span, chain: append(append([]key.TypeKey{}, r.chain...), t.ReturnKey)})
	}
	return out
}

// addAssistedFactory registers an AssistedFactory binding whose
// dependencies are the target constructor's non-assisted parameters;
// assisted parameters are supplied by the factory's caller at runtime,
// never resolved from the graph (spec.md Invariant 4).
func (b *Builder) addAssistedFactory(g *BindingGraph, d *symbol.AssistedFactoryDecl, chain []key.TypeKey) []request {
	var provided []symbol.Param
	if target, ok := b.model.InjectTarget(d.TargetClassID); ok {
		var ctorAssisted []symbol.Param
		for _, p := range target.Params {
			if p.Assisted {
				ctorAssisted = append(ctorAssisted, p)
			} else {
				provided = append(provided, p)
			}
		}
		if !assistedSetsEqual(ctorAssisted, d.AssistedParams) {
			b.diags.Errorf(diag.KindAssistedMismatch, d.Span,
				"%s's assisted parameters do not match %s's assisted constructor parameters", d.FactoryKey, target.ReturnKey)
		}
	}
	g.add(Binding{
		Kind:           KindAssistedFactory,
		Key:            d.FactoryKey,
		Span:           d.Span,
		Origin:         d.ID,
		Params:         provided,
		TargetClassID:  d.TargetClassID,
		AssistedParams: d.AssistedParams,
	})
	return enqueueDeps(provided, d.FactoryKey, chain)
}

// assistedSetsEqual compares a constructor's assisted parameters against
// a factory's declared ones as a (TypeKey, assistedIdentifier) multiset,
// order-independent (spec.md Invariant 4).
func assistedSetsEqual(ctor, factory []symbol.Param) bool {
	if len(ctor) != len(factory) {
		return false
	}
	count := map[string]int{}
	for _, p := range ctor {
		count[p.Type.Key.String()+"#"+p.AssistedID]++
	}
	for _, p := range factory {
		id := p.Type.Key.String() + "#" + p.AssistedID
		if count[id] == 0 {
			return false
		}
		count[id]--
	}
	return true
}

func (b *Builder) addMembersInjector(g *BindingGraph, k key.TypeKey, chain []key.TypeKey) []request {
	id, ok := b.model.ResolveKey(k)
	if !ok {
		return nil
	}
	target, ok := b.model.InjectTarget(id)
	var sites []symbol.MemberSite
	if ok {
		sites = target.MembersToInject
	}
	g.add(Binding{Kind: KindMembersInjector, Key: k, Origin: id, MemberSites: sites})
	out := make([]request, 0, len(sites))
	for _, ms := range sites {
		out = append(out, request{want: ms.Type, span: ms.Span, chain: append(append([]key.TypeKey{}, chain...), k)})
	}
	return out
}

func (b *Builder) addMulti(g *BindingGraph, setOrMapKey key.TypeKey, mg *multiGroup, chain []key.TypeKey) []request {
	g.add(Binding{
		Kind:         multiKind(mg),
		Key:          setOrMapKey,
		Contributors: mg.members,
		AllowEmpty:   mg.allowEmpty,
		ElementKey:   mg.elementKey,
	})
	var out []request
	for _, c := range mg.members {
		out = append(out, enqueueDeps(c.Param, setOrMapKey, chain)...)
		if c.ElementKey != (key.TypeKey{}) {
			nextChain := append(append([]key.TypeKey{}, chain...), setOrMapKey)
			out = append(out, request{want: key.ContextualTypeKey{Key: c.ElementKey}, span: c.Span, chain: nextChain})
		}
	}
	return out
}

func multiKind(mg *multiGroup) BindingKind {
	if mg.isMap {
		return KindMultiMap
	}
	return KindMultiSet
}

func enqueueDeps(params []symbol.Param, self key.TypeKey, chain []key.TypeKey) []request {
	nextChain := append(append([]key.TypeKey{}, chain...), self)
	out := make([]request, 0, len(params))
	for _, p := range params {
		out = append(out, request{want: p.Type, span: p.Span, chain: nextChain})
	}
	return out
}

// wireEdges builds the unsealed adjacency from each Binding's recorded
// dependencies, once every reachable Binding has been added. This is a
// separate pass (rather than edges added during resolve()) because a
// dependency's Binding may not exist yet at the moment it is
// requested — the BFS in Build resolves bindings in discovery order,
// not dependency order.
func wireEdges(g *BindingGraph) {
	for i, bnd := range g.Bindings {
		from := BindingIndex(i)
		switch bnd.Kind {
		case KindProvides, KindConstructorInject, KindAssistedFactory:
			for _, p := range bnd.Params {
				if to, ok := g.Lookup(p.Type.Key); ok {
					g.addEdge(from, to, p.Type.Wrapper)
				}
			}
			for _, ms := range bnd.MemberSites {
				if to, ok := g.Lookup(ms.Type.Key); ok {
					g.addEdge(from, to, ms.Type.Wrapper)
				}
			}
		case KindAlias:
			if to, ok := g.Lookup(bnd.AliasTarget); ok {
				g.addEdge(from, to, key.Wrapper{})
			}
		case KindMembersInjector:
			for _, ms := range bnd.MemberSites {
				if to, ok := g.Lookup(ms.Type.Key); ok {
					g.addEdge(from, to, ms.Type.Wrapper)
				}
			}
		case KindMultiSet, KindMultiMap:
			for _, c := range bnd.Contributors {
				for _, p := range c.Param {
					if to, ok := g.Lookup(p.Type.Key); ok {
						g.addEdge(from, to, p.Type.Wrapper)
					}
				}
				if c.ElementKey != (key.TypeKey{}) {
					if to, ok := g.Lookup(c.ElementKey); ok {
						g.addEdge(from, to, key.Wrapper{})
					}
				}
			}
		}
	}
}
