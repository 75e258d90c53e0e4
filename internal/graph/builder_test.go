package graph_test

import (
	"testing"

	"github.com/metro-di/metro/internal/contrib"
	"github.com/metro-di/metro/internal/diag"
	"github.com/metro-di/metro/internal/fixture"
	"github.com/metro-di/metro/internal/graph"
	"github.com/metro-di/metro/internal/host"
	"github.com/metro-di/metro/internal/key"
	"github.com/metro-di/metro/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coreFQN(m symbol.Marker) string { return symbol.DefaultCoreFQN()[m] }

func newFixture() (*fixture.Enumerator, *fixture.Oracle, *diag.Sink) {
	return fixture.NewEnumerator(), fixture.NewOracle(), diag.NewSink()
}

func newModel(enum *fixture.Enumerator, oracle *fixture.Oracle, diags *diag.Sink) *symbol.Model {
	markers := symbol.NewMarkerSet(symbol.DefaultCoreFQN(), nil)
	return symbol.NewModel(enum, oracle, markers, diags)
}

// TestBuild_SimpleProvides resolves a single accessor straight to an
// own @Provides member on the graph root.
func TestBuild_SimpleProvides(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idAccessor
		idProvidesFoo
	)

	enum.Add(host.Symbol{
		ID:            idRoot,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.AppGraph",
		IsAccessible:  true,
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerGraphRoot), nil)},
		Members:       []key.TypeID{idAccessor, idProvidesFoo},
	})
	enum.Add(host.Symbol{
		ID:            idAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.foo",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Foo"),
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idProvidesFoo,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.provideFoo",
		HasBody:       true,
		ReturnKey:     fixture.Ctx("app.Foo"),
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerProvides), nil)},
		Owner:         idRoot,
	})

	model := newModel(enum, oracle, diags)
	agg := contrib.NewAggregator(model, fixture.NewHintLookup())
	b := graph.NewBuilder(model, agg, diags)

	g := b.Build(idRoot, nil)
	require.NotNil(t, g)
	require.False(t, diags.HasErrors())

	idx, ok := g.Lookup(fixture.Key("app.Foo"))
	require.True(t, ok)
	assert.Equal(t, graph.KindProvides, g.Binding(idx).Kind)
}

// TestBuild_BindsForwardsToConstructorInject exercises a @Binds alias
// whose receiver type is itself constructor-injected.
func TestBuild_BindsForwardsToConstructorInject(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idAccessor
		idBindsFoo
		idFooImpl
		idFooImplCtor
	)

	oracle.AllowSubtype(fixture.Key("app.FooImpl"), fixture.Key("app.Foo"))

	enum.Add(host.Symbol{
		ID:            idRoot,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.AppGraph",
		IsAccessible:  true,
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerGraphRoot), nil)},
		Members:       []key.TypeID{idAccessor, idBindsFoo},
	})
	enum.Add(host.Symbol{
		ID:            idAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.foo",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Foo"),
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idBindsFoo,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.bindFoo",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Foo"),
		Params: []host.Param{
			{Name: "impl", Type: fixture.Ctx("app.FooImpl")},
		},
		Annotations: []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerBinds), nil)},
		Owner:       idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idFooImpl,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.FooImpl",
		IsAccessible:  true,
		Supertypes:    []key.TypeKey{fixture.Key("app.Foo")},
		Members:       []key.TypeID{idFooImplCtor},
	})
	enum.Add(host.Symbol{
		ID:            idFooImplCtor,
		Kind:          host.DeclKindConstructor,
		QualifiedName: "app.FooImpl.<init>",
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerInject), nil)},
		Owner:         idFooImpl,
	})

	model := newModel(enum, oracle, diags)
	agg := contrib.NewAggregator(model, fixture.NewHintLookup())
	b := graph.NewBuilder(model, agg, diags)

	g := b.Build(idRoot, nil)
	require.NotNil(t, g)
	require.False(t, diags.HasErrors())

	aliasIdx, ok := g.Lookup(fixture.Key("app.Foo"))
	require.True(t, ok)
	assert.Equal(t, graph.KindAlias, g.Binding(aliasIdx).Kind)
	assert.Equal(t, fixture.Key("app.FooImpl"), g.Binding(aliasIdx).AliasTarget)

	implIdx, ok := g.Lookup(fixture.Key("app.FooImpl"))
	require.True(t, ok)
	assert.Equal(t, graph.KindConstructorInject, g.Binding(implIdx).Kind)
}

// TestBuild_DuplicateBindingReported ensures two distinct declarations
// contending for the same TypeKey report DUPLICATE_BINDING instead of
// one silently winning.
func TestBuild_DuplicateBindingReported(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idProvidesA
		idProvidesB
	)

	enum.Add(host.Symbol{
		ID:            idRoot,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.AppGraph",
		IsAccessible:  true,
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerGraphRoot), nil)},
		Members:       []key.TypeID{idProvidesA, idProvidesB},
	})
	enum.Add(host.Symbol{
		ID:            idProvidesA,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.provideFooA",
		HasBody:       true,
		ReturnKey:     fixture.Ctx("app.Foo"),
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerProvides), nil)},
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idProvidesB,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.provideFooB",
		HasBody:       true,
		ReturnKey:     fixture.Ctx("app.Foo"),
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerProvides), nil)},
		Owner:         idRoot,
	})

	model := newModel(enum, oracle, diags)
	agg := contrib.NewAggregator(model, fixture.NewHintLookup())
	b := graph.NewBuilder(model, agg, diags)

	g := b.Build(idRoot, nil)
	require.NotNil(t, g)
	require.True(t, diags.HasErrors())

	var found bool
	for _, d := range diags.Diagnostics() {
		if d.Kind == diag.KindDuplicateBinding {
			found = true
		}
	}
	assert.True(t, found)
}

// TestBuild_MultiSetSynthesis checks that two @IntoSet providers land
// in the same synthesized Set<T> binding, reachable from an accessor
// requesting the collection directly.
func TestBuild_MultiSetSynthesis(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idAccessor
		idProvidesOne
		idProvidesTwo
	)

	setKey := key.NewTypeKey("kotlin.collections.Set", []key.TypeKey{fixture.Key("app.Plugin")}, false, nil)

	enum.Add(host.Symbol{
		ID:            idRoot,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.AppGraph",
		IsAccessible:  true,
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerGraphRoot), nil)},
		Members:       []key.TypeID{idAccessor, idProvidesOne, idProvidesTwo},
	})
	enum.Add(host.Symbol{
		ID:            idAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.plugins",
		IsAbstract:    true,
		ReturnKey:     key.ContextualTypeKey{Key: setKey},
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idProvidesOne,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.providePluginOne",
		HasBody:       true,
		ReturnKey:     fixture.Ctx("app.Plugin"),
		Annotations: []host.Annotation{
			fixture.Ann(coreFQN(symbol.MarkerProvides), nil),
			fixture.Ann(coreFQN(symbol.MarkerIntoSet), nil),
		},
		Owner: idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idProvidesTwo,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.providePluginTwo",
		HasBody:       true,
		ReturnKey:     fixture.Ctx("app.Plugin"),
		Annotations: []host.Annotation{
			fixture.Ann(coreFQN(symbol.MarkerProvides), nil),
			fixture.Ann(coreFQN(symbol.MarkerIntoSet), nil),
		},
		Owner: idRoot,
	})

	model := newModel(enum, oracle, diags)
	agg := contrib.NewAggregator(model, fixture.NewHintLookup())
	b := graph.NewBuilder(model, agg, diags)

	g := b.Build(idRoot, nil)
	require.NotNil(t, g)
	require.False(t, diags.HasErrors())

	idx, ok := g.Lookup(setKey)
	require.True(t, ok)
	bnd := g.Binding(idx)
	assert.Equal(t, graph.KindMultiSet, bnd.Kind)
	assert.Len(t, bnd.Contributors, 2)
}

// TestBuild_MissingBindingReported ensures an unreachable accessor
// request reports MISSING_BINDING rather than panicking.
func TestBuild_MissingBindingReported(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idAccessor
	)

	enum.Add(host.Symbol{
		ID:            idRoot,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.AppGraph",
		IsAccessible:  true,
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerGraphRoot), nil)},
		Members:       []key.TypeID{idAccessor},
	})
	enum.Add(host.Symbol{
		ID:            idAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.foo",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Foo"),
		Owner:         idRoot,
	})

	model := newModel(enum, oracle, diags)
	agg := contrib.NewAggregator(model, fixture.NewHintLookup())
	b := graph.NewBuilder(model, agg, diags)

	g := b.Build(idRoot, nil)
	require.NotNil(t, g)
	require.True(t, diags.HasErrors())
	assert.Equal(t, diag.KindMissingBinding, diags.Diagnostics()[0].Kind)
}

// TestBuild_GraphExtensionLinked checks that a nested @GraphExtension
// member produces a GraphExtensionLink binding and a built child graph.
func TestBuild_GraphExtensionLinked(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idExtension
		idChildAccessor
		idChildProvides
	)

	enum.Add(host.Symbol{
		ID:            idRoot,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.AppGraph",
		IsAccessible:  true,
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerGraphRoot), nil)},
		Members:       []key.TypeID{idExtension},
	})
	enum.Add(host.Symbol{
		ID:            idExtension,
		Kind:          host.DeclKindInterface,
		QualifiedName: "app.AppGraph.RequestScope",
		IsAccessible:  true,
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerGraphExtension), nil)},
		Members:       []key.TypeID{idChildAccessor, idChildProvides},
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idChildAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.RequestScope.bar",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Bar"),
		Owner:         idExtension,
	})
	enum.Add(host.Symbol{
		ID:            idChildProvides,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.RequestScope.provideBar",
		HasBody:       true,
		ReturnKey:     fixture.Ctx("app.Bar"),
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerProvides), nil)},
		Owner:         idExtension,
	})

	model := newModel(enum, oracle, diags)
	agg := contrib.NewAggregator(model, fixture.NewHintLookup())
	b := graph.NewBuilder(model, agg, diags)

	g := b.Build(idRoot, nil)
	require.NotNil(t, g)
	require.False(t, diags.HasErrors())

	require.Len(t, g.ExtensionLinks, 1)
	require.Len(t, g.Children, 1)
	linkBnd := g.Binding(g.ExtensionLinks[0])
	assert.Equal(t, graph.KindGraphExtensionLink, linkBnd.Kind)

	child := g.Children[0]
	idx, ok := child.Lookup(fixture.Key("app.Bar"))
	require.True(t, ok)
	assert.Equal(t, graph.KindProvides, child.Binding(idx).Kind)
}

// TestBuild_AssistedFactory exercises a constructor with one injected
// and one assisted parameter, reached through its @AssistedFactory
// interface rather than the target class directly.
func TestBuild_AssistedFactory(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idAccessor
		idWidget
		idWidgetCtor
		idWidgetFactory
		idWidgetFactoryCreate
		idDatabase
		idDatabaseCtor
	)

	enum.Add(host.Symbol{
		ID:            idRoot,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.AppGraph",
		IsAccessible:  true,
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerGraphRoot), nil)},
		Members:       []key.TypeID{idAccessor},
	})
	enum.Add(host.Symbol{
		ID:            idAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.widgetFactory",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.WidgetFactory"),
		Owner:         idRoot,
	})

	enum.Add(host.Symbol{
		ID:            idWidget,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.Widget",
		IsAccessible:  true,
		Members:       []key.TypeID{idWidgetCtor},
	})
	enum.Add(host.Symbol{
		ID:            idWidgetCtor,
		Kind:          host.DeclKindConstructor,
		QualifiedName: "app.Widget.<init>",
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerAssistedInject), nil)},
		Params: []host.Param{
			{Name: "db", Type: fixture.Ctx("app.Database")},
			{
				Name: "id", Type: fixture.Ctx("kotlin.String"),
				Annotations: []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerAssisted), nil)},
			},
		},
		Owner: idWidget,
	})

	enum.Add(host.Symbol{
		ID:            idWidgetFactory,
		Kind:          host.DeclKindInterface,
		QualifiedName: "app.WidgetFactory",
		IsAccessible:  true,
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerAssistedFactory), nil)},
		Members:       []key.TypeID{idWidgetFactoryCreate},
	})
	enum.Add(host.Symbol{
		ID:            idWidgetFactoryCreate,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.WidgetFactory.create",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Widget"),
		Params: []host.Param{
			{Name: "id", Type: fixture.Ctx("kotlin.String")},
		},
		Owner: idWidgetFactory,
	})

	enum.Add(host.Symbol{
		ID:            idDatabase,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.Database",
		IsAccessible:  true,
		Members:       []key.TypeID{idDatabaseCtor},
	})
	enum.Add(host.Symbol{
		ID:            idDatabaseCtor,
		Kind:          host.DeclKindConstructor,
		QualifiedName: "app.Database.<init>",
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerInject), nil)},
		Owner:         idDatabase,
	})

	model := newModel(enum, oracle, diags)
	agg := contrib.NewAggregator(model, fixture.NewHintLookup())
	b := graph.NewBuilder(model, agg, diags)

	g := b.Build(idRoot, nil)
	require.NotNil(t, g)
	require.False(t, diags.HasErrors(), "%v", diags.Diagnostics())

	idx, ok := g.Lookup(fixture.Key("app.WidgetFactory"))
	require.True(t, ok)
	bnd := g.Binding(idx)
	assert.Equal(t, graph.KindAssistedFactory, bnd.Kind)
	assert.Len(t, bnd.AssistedParams, 1)
	assert.Len(t, bnd.Params, 1)

	_, ok = g.Lookup(fixture.Key("app.Database"))
	assert.True(t, ok)
}

// TestBuild_ContributesIntoSetResolvesElementDeps checks that a
// @ContributesIntoSet class (spec.md §8 scenario 4) is resolved into the
// graph as its own ConstructorInject binding, with its constructor's
// dependency wired and satisfied, rather than only appearing as an
// opaque multi-binding contributor.
func TestBuild_ContributesIntoSetResolvesElementDeps(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idAccessor
		idCacheImpl
		idCacheImplCtor
		idProvidesConfig
	)

	appScope := key.NewScopeKey("app.AppScope")
	setKey := key.NewTypeKey("kotlin.collections.Set", []key.TypeKey{fixture.Key("app.Cache")}, false, nil)

	enum.Add(host.Symbol{
		ID:            idRoot,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.AppGraph",
		IsAccessible:  true,
		Annotations: []host.Annotation{
			fixture.Ann(coreFQN(symbol.MarkerGraphRoot), map[string]host.Literal{
				"scope": fixture.ClassArg(fixture.Key("app.AppScope")),
			}),
		},
		Members: []key.TypeID{idAccessor, idProvidesConfig},
	})
	enum.Add(host.Symbol{
		ID:            idAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.caches",
		IsAbstract:    true,
		ReturnKey:     key.ContextualTypeKey{Key: setKey},
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idProvidesConfig,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.provideConfig",
		HasBody:       true,
		ReturnKey:     fixture.Ctx("app.Config"),
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerProvides), nil)},
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idCacheImpl,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.CacheImpl",
		IsAccessible:  true,
		Supertypes:    []key.TypeKey{fixture.Key("app.Cache")},
		Members:       []key.TypeID{idCacheImplCtor},
		Annotations: []host.Annotation{
			fixture.Ann(coreFQN(symbol.MarkerContributesIntoSet), map[string]host.Literal{
				"scope": fixture.ClassArg(fixture.Key("app.AppScope")),
			}),
		},
	})
	enum.Add(host.Symbol{
		ID:            idCacheImplCtor,
		Kind:          host.DeclKindConstructor,
		QualifiedName: "app.CacheImpl.<init>",
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerInject), nil)},
		Params:        []host.Param{{Name: "config", Type: fixture.Ctx("app.Config")}},
		Owner:         idCacheImpl,
	})

	hints := fixture.NewHintLookup(
		host.ContributionHint{TypeID: idCacheImpl, Scope: appScope, ModuleID: "mod-a"},
	)

	model := newModel(enum, oracle, diags)
	agg := contrib.NewAggregator(model, hints)
	b := graph.NewBuilder(model, agg, diags)

	g := b.Build(idRoot, nil)
	require.NotNil(t, g)
	require.False(t, diags.HasErrors(), "%v", diags.Diagnostics())

	idx, ok := g.Lookup(setKey)
	require.True(t, ok)
	bnd := g.Binding(idx)
	assert.Equal(t, graph.KindMultiSet, bnd.Kind)
	require.Len(t, bnd.Contributors, 1)
	assert.Equal(t, fixture.Key("app.CacheImpl"), bnd.Contributors[0].ElementKey)

	implIdx, ok := g.Lookup(fixture.Key("app.CacheImpl"))
	require.True(t, ok)
	assert.Equal(t, graph.KindConstructorInject, g.Binding(implIdx).Kind)

	_, ok = g.Lookup(fixture.Key("app.Config"))
	assert.True(t, ok)
}

// TestBuild_ContributesIntoSetMissingElementDepReported checks that a
// missing dependency inside a @ContributesIntoSet class's own
// constructor is caught, not silently ignored because the element is
// only ever referenced as an opaque multi-binding contributor.
func TestBuild_ContributesIntoSetMissingElementDepReported(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idAccessor
		idCacheImpl
		idCacheImplCtor
	)

	appScope := key.NewScopeKey("app.AppScope")
	setKey := key.NewTypeKey("kotlin.collections.Set", []key.TypeKey{fixture.Key("app.Cache")}, false, nil)

	enum.Add(host.Symbol{
		ID:            idRoot,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.AppGraph",
		IsAccessible:  true,
		Annotations: []host.Annotation{
			fixture.Ann(coreFQN(symbol.MarkerGraphRoot), map[string]host.Literal{
				"scope": fixture.ClassArg(fixture.Key("app.AppScope")),
			}),
		},
		Members: []key.TypeID{idAccessor},
	})
	enum.Add(host.Symbol{
		ID:            idAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.caches",
		IsAbstract:    true,
		ReturnKey:     key.ContextualTypeKey{Key: setKey},
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idCacheImpl,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.CacheImpl",
		IsAccessible:  true,
		Supertypes:    []key.TypeKey{fixture.Key("app.Cache")},
		Members:       []key.TypeID{idCacheImplCtor},
		Annotations: []host.Annotation{
			fixture.Ann(coreFQN(symbol.MarkerContributesIntoSet), map[string]host.Literal{
				"scope": fixture.ClassArg(fixture.Key("app.AppScope")),
			}),
		},
	})
	enum.Add(host.Symbol{
		ID:            idCacheImplCtor,
		Kind:          host.DeclKindConstructor,
		QualifiedName: "app.CacheImpl.<init>",
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerInject), nil)},
		Params:        []host.Param{{Name: "config", Type: fixture.Ctx("app.Config")}},
		Owner:         idCacheImpl,
	})

	hints := fixture.NewHintLookup(
		host.ContributionHint{TypeID: idCacheImpl, Scope: appScope, ModuleID: "mod-a"},
	)

	model := newModel(enum, oracle, diags)
	agg := contrib.NewAggregator(model, hints)
	b := graph.NewBuilder(model, agg, diags)

	g := b.Build(idRoot, nil)
	require.NotNil(t, g)
	require.True(t, diags.HasErrors())

	var found bool
	for _, d := range diags.Diagnostics() {
		if d.Kind == diag.KindMissingBinding {
			found = true
		}
	}
	assert.True(t, found, "%v", diags.Diagnostics())
}
