package codegen_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/metro-di/metro/internal/codegen"
	"github.com/metro-di/metro/internal/contrib"
	"github.com/metro-di/metro/internal/diag"
	"github.com/metro-di/metro/internal/fixture"
	"github.com/metro-di/metro/internal/graph"
	"github.com/metro-di/metro/internal/host"
	"github.com/metro-di/metro/internal/key"
	"github.com/metro-di/metro/internal/symbol"
	"github.com/metro-di/metro/internal/validate"
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

// buildAndSeal runs a graph through GB then GV, the same pipeline the
// orchestrator will drive one graph at a time (spec.md §4.6).
func buildAndSeal(t *testing.T, enum *fixture.Enumerator, oracle *fixture.Oracle, diags *diag.Sink, rootID key.TypeID) *validate.SealedGraph {
	t.Helper()
	model := newModel(enum, oracle, diags)
	agg := contrib.NewAggregator(model, fixture.NewHintLookup())
	b := graph.NewBuilder(model, agg, diags)
	g := b.Build(rootID, nil)
	require.NotNil(t, g)
	require.False(t, diags.HasErrors(), "%v", diags.Diagnostics())
	return validate.NewValidator().Seal(g, diags)
}

func fieldFor(plan *codegen.Plan, k key.TypeKey) (codegen.FieldPlan, bool) {
	for _, f := range plan.Fields {
		if f.Key == k {
			return f, true
		}
	}
	return codegen.FieldPlan{}, false
}

func TestPlan_SimpleProvidesHasNoDependencies(t *testing.T) {
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

	sealed := buildAndSeal(t, enum, oracle, diags, idRoot)
	plan := codegen.NewPlanner().Plan(sealed)

	require.Len(t, plan.Fields, 1)
	fp := plan.Fields[0]
	assert.Equal(t, codegen.FieldProvides, fp.Kind)
	assert.Empty(t, fp.DependsOn)

	require.Len(t, plan.Accessors, 1)
	assert.Equal(t, "foo", plan.Accessors[0].Name)
	assert.Equal(t, fp.Name, plan.Accessors[0].FieldName)
}

func TestPlan_ConstructorInjectDependsOnItsParam(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idAccessor
		idWidget
		idWidgetCtor
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
		QualifiedName: "app.AppGraph.widget",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Widget"),
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
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerInject), nil)},
		Params: []host.Param{
			{Name: "db", Type: fixture.Ctx("app.Database")},
		},
		Owner: idWidget,
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

	sealed := buildAndSeal(t, enum, oracle, diags, idRoot)
	plan := codegen.NewPlanner().Plan(sealed)

	widgetField, ok := fieldFor(plan, fixture.Key("app.Widget"))
	require.True(t, ok)
	dbField, ok := fieldFor(plan, fixture.Key("app.Database"))
	require.True(t, ok)

	require.Equal(t, []string{dbField.Name}, widgetField.DependsOn)

	// Database must be emitted before Widget since Widget depends on it.
	var dbIdx, widgetIdx int
	for i, f := range plan.Fields {
		if f.Name == dbField.Name {
			dbIdx = i
		}
		if f.Name == widgetField.Name {
			widgetIdx = i
		}
	}
	assert.Less(t, dbIdx, widgetIdx)
}

func TestPlan_AliasPointsAtItsTarget(t *testing.T) {
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

	sealed := buildAndSeal(t, enum, oracle, diags, idRoot)
	plan := codegen.NewPlanner().Plan(sealed)

	aliasField, ok := fieldFor(plan, fixture.Key("app.Foo"))
	require.True(t, ok)
	implField, ok := fieldFor(plan, fixture.Key("app.FooImpl"))
	require.True(t, ok)

	assert.Equal(t, codegen.FieldAlias, aliasField.Kind)
	assert.Equal(t, implField.Name, aliasField.AliasOf)
}

func TestPlan_MultiSetCollectsEveryContributorAsACall(t *testing.T) {
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

	sealed := buildAndSeal(t, enum, oracle, diags, idRoot)
	plan := codegen.NewPlanner().Plan(sealed)

	setField, ok := fieldFor(plan, setKey)
	require.True(t, ok)
	assert.Equal(t, codegen.FieldMultiSet, setField.Kind)
	require.Len(t, setField.Contributors, 2)
	for _, c := range setField.Contributors {
		assert.NotEmpty(t, c.CallName)
		assert.False(t, c.FromElements)
	}
	assert.NotEqual(t, setField.Contributors[0].CallName, setField.Contributors[1].CallName)
}

// TestPlan_IsDeterministicAcrossRuns confirms replanning the same sealed
// graph twice produces byte-identical printed output (spec.md §4.5
// determinism requirement), the property codegen.Print exists to uphold.
func TestPlan_IsDeterministicAcrossRuns(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idAccessor
		idWidget
		idWidgetCtor
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
		QualifiedName: "app.AppGraph.widget",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Widget"),
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
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerInject), nil)},
		Params: []host.Param{
			{Name: "db", Type: fixture.Ctx("app.Database")},
		},
		Owner: idWidget,
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

	sealed := buildAndSeal(t, enum, oracle, diags, idRoot)
	planner := codegen.NewPlanner()

	first := codegen.Print(planner.Plan(sealed))
	second := codegen.Print(planner.Plan(sealed))
	assert.Equal(t, first, second)
	assert.Contains(t, first, "func new"+planner.Plan(sealed).GraphName+"()")
}

// TestPrint_SnapshotOfConstructorInjectChain pins the exact rendered
// text for a small constructor-inject chain, the same way the
// teacher's printer tests pin PrintModule/PrintExpr output.
func TestPrint_SnapshotOfConstructorInjectChain(t *testing.T) {
	enum, oracle, diags := newFixture()

	const (
		idRoot key.TypeID = iota + 1
		idAccessor
		idWidget
		idWidgetCtor
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
		QualifiedName: "app.AppGraph.widget",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Widget"),
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
		Annotations:   []host.Annotation{fixture.Ann(coreFQN(symbol.MarkerInject), nil)},
		Params: []host.Param{
			{Name: "db", Type: fixture.Ctx("app.Database")},
		},
		Owner: idWidget,
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

	sealed := buildAndSeal(t, enum, oracle, diags, idRoot)
	rendered := codegen.Print(codegen.NewPlanner().Plan(sealed))

	snaps.MatchSnapshot(t, rendered)
}
