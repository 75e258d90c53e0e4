package main

import (
	"context"
	"fmt"
	"io"

	"github.com/metro-di/metro/internal/codegen"
	"github.com/metro-di/metro/internal/fixture"
	"github.com/metro-di/metro/internal/host"
	"github.com/metro-di/metro/internal/key"
	"github.com/metro-di/metro/internal/orchestrator"
	"github.com/metro-di/metro/internal/symbol"
)

type buildOptions struct {
	reportsDir   string
	debug        bool
	allowForeign bool
}

// sampleGraph builds a small in-memory compilation unit through
// internal/fixture: a graph root with a constructor-injected chain
// (Widget depends on Database), a multibound plugin set, and one
// @GraphExtension child. There is no real host frontend in this
// repository (spec.md §1 places it out of scope), so this demo unit
// is what the CLI actually exercises the pipeline against, the same
// role internal/fixture plays for the test suite.
func sampleGraph() (*fixture.Enumerator, *fixture.Oracle, *fixture.HintLookup) {
	enum := fixture.NewEnumerator()
	oracle := fixture.NewOracle()
	hints := fixture.NewHintLookup()

	coreFQN := symbol.DefaultCoreFQN()
	ann := func(m symbol.Marker) host.Annotation { return fixture.Ann(coreFQN[m], nil) }

	const (
		idRoot key.TypeID = iota + 1
		idWidgetAccessor
		idPluginsAccessor
		idWidget
		idWidgetCtor
		idDatabase
		idDatabaseCtor
		idProvidePluginOne
		idProvidePluginTwo
		idRequestScope
		idRequestAccessor
		idRequestProvides
	)

	pluginSetKey := key.NewTypeKey("kotlin.collections.Set", []key.TypeKey{fixture.Key("app.Plugin")}, false, nil)

	enum.Add(host.Symbol{
		ID:            idRoot,
		Kind:          host.DeclKindClass,
		QualifiedName: "app.AppGraph",
		IsAccessible:  true,
		Annotations:   []host.Annotation{ann(symbol.MarkerGraphRoot)},
		Members:       []key.TypeID{idWidgetAccessor, idPluginsAccessor, idProvidePluginOne, idProvidePluginTwo, idRequestScope},
	})
	enum.Add(host.Symbol{
		ID:            idWidgetAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.widget",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Widget"),
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idPluginsAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.plugins",
		IsAbstract:    true,
		ReturnKey:     key.ContextualTypeKey{Key: pluginSetKey},
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
		Annotations:   []host.Annotation{ann(symbol.MarkerInject)},
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
		Annotations:   []host.Annotation{ann(symbol.MarkerInject)},
		Owner:         idDatabase,
	})
	enum.Add(host.Symbol{
		ID:            idProvidePluginOne,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.providePluginOne",
		HasBody:       true,
		ReturnKey:     fixture.Ctx("app.Plugin"),
		Annotations:   []host.Annotation{ann(symbol.MarkerProvides), ann(symbol.MarkerIntoSet)},
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idProvidePluginTwo,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.providePluginTwo",
		HasBody:       true,
		ReturnKey:     fixture.Ctx("app.Plugin"),
		Annotations:   []host.Annotation{ann(symbol.MarkerProvides), ann(symbol.MarkerIntoSet)},
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idRequestScope,
		Kind:          host.DeclKindInterface,
		QualifiedName: "app.AppGraph.RequestScope",
		IsAccessible:  true,
		Annotations:   []host.Annotation{ann(symbol.MarkerGraphExtension)},
		Members:       []key.TypeID{idRequestAccessor, idRequestProvides},
		Owner:         idRoot,
	})
	enum.Add(host.Symbol{
		ID:            idRequestAccessor,
		Kind:          host.DeclKindProperty,
		QualifiedName: "app.AppGraph.RequestScope.session",
		IsAbstract:    true,
		ReturnKey:     fixture.Ctx("app.Session"),
		Owner:         idRequestScope,
	})
	enum.Add(host.Symbol{
		ID:            idRequestProvides,
		Kind:          host.DeclKindFunction,
		QualifiedName: "app.AppGraph.RequestScope.provideSession",
		HasBody:       true,
		ReturnKey:     fixture.Ctx("app.Session"),
		Annotations:   []host.Annotation{ann(symbol.MarkerProvides)},
		Owner:         idRequestScope,
	})

	return enum, oracle, hints
}

func build(stdout, stderr io.Writer, opts buildOptions) {
	fmt.Fprintln(stdout, "building dependency graphs...")

	enum, oracle, hints := sampleGraph()
	o := orchestrator.New(enum, oracle, hints, orchestrator.Options{
		Enabled:                 true,
		Debug:                   opts.debug,
		ReportsDir:              opts.reportsDir,
		AllowForeignAnnotations: opts.allowForeign,
		Tracing:                 opts.reportsDir != "",
	})

	result, err := o.Run(context.Background())
	if err != nil {
		fmt.Fprintln(stderr, "run aborted:", err)
		return
	}

	for _, gr := range result.Graphs {
		for _, d := range gr.Diagnostics {
			fmt.Fprintln(stderr, d.Render())
		}
		if gr.Plan == nil {
			fmt.Fprintf(stdout, "graph %d: no plan emitted (see diagnostics)\n", gr.RootID)
			continue
		}
		fmt.Fprintf(stdout, "graph %d -> %s\n", gr.RootID, gr.Plan.GraphName)
		fmt.Fprintln(stdout, codegen.Print(gr.Plan))
	}

	if opts.reportsDir != "" {
		fmt.Fprintln(stdout, "reports written to", opts.reportsDir)
	}
}
