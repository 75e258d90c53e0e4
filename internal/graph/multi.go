package graph

import (
	"github.com/metro-di/metro/internal/contrib"
	"github.com/metro-di/metro/internal/key"
	"github.com/metro-di/metro/internal/symbol"
)

// Collection type constructors used to synthesize the composite
// Set<T>/Map<K,V> TypeKey a multi-binding request resolves against.
// These must match the qualified names the host uses for the
// standard collection interfaces so that a request's own TypeKey
// (built by the host from its own Set<T>/Map<K,V> AST node) lands on
// the exact same canonical string as the one synthesized here —
// avoids parsing TypeKey's opaque canonical string to find its
// element type (spec.md §4.3 rule 5).
const (
	setTypeName = "kotlin.collections.Set"
	mapTypeName = "kotlin.collections.Map"
)

func setKeyFor(elem key.TypeKey) key.TypeKey {
	return key.NewTypeKey(setTypeName, []key.TypeKey{elem}, false, nil)
}

func mapKeyFor(k, v key.TypeKey) key.TypeKey {
	return key.NewTypeKey(mapTypeName, []key.TypeKey{k, v}, false, nil)
}

// multiGroup accumulates every contributor of one multi-binding along
// with whether an explicit @Multibinds(allowEmpty=true) licenses it to
// be empty.
type multiGroup struct {
	elementKey key.TypeKey
	isMap      bool
	allowEmpty bool
	members    []Contributor
}

// multiIndex indexes every recognized multi-binding group by the
// synthesized Set<T>/Map<K,V> TypeKey a dependent request resolves
// against.
type multiIndex struct {
	groups map[key.TypeKey]*multiGroup
}

func newMultiIndex() *multiIndex {
	return &multiIndex{groups: map[key.TypeKey]*multiGroup{}}
}

func (mi *multiIndex) lookup(k key.TypeKey) (*multiGroup, bool) {
	g, ok := mi.groups[k]
	return g, ok
}

func (mi *multiIndex) group(setOrMapKey key.TypeKey, elem key.TypeKey, isMap bool) *multiGroup {
	g, ok := mi.groups[setOrMapKey]
	if !ok {
		g = &multiGroup{elementKey: elem, isMap: isMap}
		mi.groups[setOrMapKey] = g
	}
	if g.elementKey == (key.TypeKey{}) && elem != (key.TypeKey{}) {
		g.elementKey = elem
	}
	return g
}

// declareMultibinds registers the group for an explicit @Multibinds
// declaration so a dependent request resolves even with zero
// contributors, licensing an empty result only when allowEmpty is true
// (its declared return type is already the Set<T>/Map<K,V> shape a
// dependent request resolves against — unlike @Provides/@Binds
// IntoSet/IntoMap members, whose declared return type is the element,
// not the collection).
func (mi *multiIndex) declareMultibinds(collectionKey key.TypeKey, isMap, allowEmpty bool) {
	g := mi.group(collectionKey, key.TypeKey{}, isMap)
	g.allowEmpty = g.allowEmpty || allowEmpty
}

func (mi *multiIndex) addProvidesContribution(d symbol.ProvidesDecl, origin key.TypeID) {
	switch {
	case d.ElementsIntoSet:
		k := setKeyFor(d.ReturnKey.Key)
		g := mi.group(k, d.ReturnKey.Key, false)
		g.members = append(g.members, Contributor{Origin: origin, Param: d.Params, FromElements: true})
	case d.IntoSet:
		k := setKeyFor(d.ReturnKey.Key)
		g := mi.group(k, d.ReturnKey.Key, false)
		g.members = append(g.members, Contributor{Origin: origin, Param: d.Params})
	case d.IntoMap:
		kk := mapKeyElemKey(d.MapKey)
		k := mapKeyFor(kk, d.ReturnKey.Key)
		g := mi.group(k, d.ReturnKey.Key, true)
		g.members = append(g.members, Contributor{Origin: origin, Param: d.Params, MapKey: d.MapKey})
	}
}

func (mi *multiIndex) addBindsContribution(d symbol.BindsDecl, origin key.TypeID) {
	switch {
	case d.IntoSet:
		k := setKeyFor(d.ToKey.Key)
		g := mi.group(k, d.ToKey.Key, false)
		g.members = append(g.members, Contributor{Origin: origin, ElementKey: d.FromKey, Span: d.Span})
	case d.IntoMap:
		kk := mapKeyElemKey(d.MapKey)
		k := mapKeyFor(kk, d.ToKey.Key)
		g := mi.group(k, d.ToKey.Key, true)
		g.members = append(g.members, Contributor{Origin: origin, MapKey: d.MapKey, ElementKey: d.FromKey, Span: d.Span})
	}
}

func (mi *multiIndex) addContributesBinding(d *symbol.ContributesBindingDecl) {
	switch {
	case d.IntoSet:
		k := setKeyFor(d.BoundKey)
		g := mi.group(k, d.BoundKey, false)
		g.members = append(g.members, Contributor{Origin: d.ID, ElementKey: d.ClassKey, Span: d.Span})
	case d.IntoMap:
		kk := mapKeyElemKey(d.MapKey)
		k := mapKeyFor(kk, d.BoundKey)
		g := mi.group(k, d.BoundKey, true)
		g.members = append(g.members, Contributor{Origin: d.ID, MapKey: d.MapKey, ElementKey: d.ClassKey, Span: d.Span})
	}
}

// mapKeyElemKey synthesizes a placeholder TypeKey for the map's key
// type from a MapKey's declared key-type FQN, since MapKey itself only
// carries the literal value, not a full TypeKey for the key type.
func mapKeyElemKey(mk *key.MapKey) key.TypeKey {
	if mk == nil {
		return key.NewTypeKey("kotlin.Any", nil, false, nil)
	}
	return key.NewTypeKey(mk.KeyType, nil, false, nil)
}

// absorbContribution folds one CA Contribution into this builder's
// provider-source table and multi-binding index.
func (b *Builder) absorbContribution(sources map[key.TypeKey]providerSource, multi *multiIndex, c contrib.Contribution) {
	absorbContainer := func(cdecl *symbol.BindingContainerDecl) {
		registerProvides(sources, b.diags, cdecl.Provides)
		registerBinds(sources, b.diags, cdecl.Binds)
		for _, p := range cdecl.Provides {
			multi.addProvidesContribution(p, p.ID)
		}
		for _, bd := range cdecl.Binds {
			multi.addBindsContribution(bd, bd.ID)
		}
		for _, mb := range cdecl.Multibinds {
			multi.declareMultibinds(mb.ElementKey, mb.IsMap, mb.AllowEmpty)
		}
	}
	if c.Container != nil {
		absorbContainer(c.Container)
	}
	if c.To != nil {
		if cdecl, ok := b.model.BindingContainer(c.To.ID); ok {
			absorbContainer(cdecl)
		}
	}
	if c.Binding != nil {
		multi.addContributesBinding(c.Binding)
		if !c.Binding.IntoSet && !c.Binding.IntoMap {
			alias := symbol.BindsDecl{
				ID: c.Binding.ID, FromKey: c.Binding.ClassKey, ToKey: key.ContextualTypeKey{Key: c.Binding.BoundKey}, Span: c.Binding.Span,
			}
			putSource(sources, b.diags, c.Binding.BoundKey, providerSource{binds: &alias, origin: c.Binding.ID}, c.Binding.Span)
		}
	}
}
