// Package orchestrator drives the full pipeline (spec.md §4.6): for
// every graph root discovered in a compilation unit it runs ASM -> CA
// -> GB -> GV -> EM, building and emitting child graphs in the middle
// of their parent's own pipeline so the parent can reference a child's
// emitted names (GB already recurses into @GraphExtension members
// while building; this package's job is to seal and plan that already-
// built tree, one graph at a time, and to record tracing spans and
// persisted reports around the whole run). Grounded on the teacher's
// compiler.Compile, which is itself "the one function that strings
// every stage together for one input" for its own pipeline.
package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/metro-di/metro/internal/codegen"
	"github.com/metro-di/metro/internal/contrib"
	"github.com/metro-di/metro/internal/diag"
	"github.com/metro-di/metro/internal/graph"
	"github.com/metro-di/metro/internal/host"
	"github.com/metro-di/metro/internal/key"
	"github.com/metro-di/metro/internal/symbol"
	"github.com/metro-di/metro/internal/trace"
	"github.com/metro-di/metro/internal/validate"
)

// Options mirrors spec.md §6's CLI/configuration options object
// field-for-field, generalizing `allowJavaAnnotations` to
// AllowForeignAnnotations since the interop table it gates is not
// Java-specific (spec.md §6 "named foreign DI families").
type Options struct {
	Enabled                          bool
	Debug                            bool
	ReportsDir                       string
	EnableFullBindingGraphValidation bool
	// CustomAnnotations maps additional host-specific annotation FQNs
	// onto the core's recognized markers, folded into the MarkerSet at
	// construction time alongside CoreFQN (spec.md §6 "customAnnotations: {include*}").
	CustomAnnotations         map[string]symbol.Marker
	AllowForeignAnnotations   bool
	Tracing                   bool
	GenerateAssistedFactories bool
}

// GraphResult is one graph root's pipeline output: its emission plan
// (nil if the graph had any fatal diagnostic, spec.md §7 "a graph with
// any error produces no emitted artifacts") plus every diagnostic
// attributed to it.
type GraphResult struct {
	RootID      key.TypeID
	Plan        *codegen.Plan
	Diagnostics []diag.Diagnostic
}

// Result is the whole run's output: one GraphResult per discovered
// graph root, plus the tracer recording every stage's timing.
type Result struct {
	Graphs []GraphResult
	Tracer *trace.Tracer
}

// Orchestrator runs the pipeline against one host compilation unit. Its
// ASM model and CA aggregator are shared across every graph root in the
// run, per spec.md §5's "effectively immutable after first population"
// shared-cache model; each graph root gets its own diagnostics buffer
// for GB/GV (spec.md §5 "per-graph state ... owned exclusively by that
// graph's pipeline").
type Orchestrator struct {
	opts       Options
	model      *symbol.Model
	agg        *contrib.Aggregator
	enum       host.SymbolEnumerator
	validator  *validate.Validator
	planner    *codegen.Planner
	modelDiags *diag.Sink
	log        *diag.Logger
}

// New builds an Orchestrator. enum/oracle/hints are the three host
// boundary collaborators (spec.md §6); opts configures the recognized
// marker set and reporting behavior.
func New(enum host.SymbolEnumerator, oracle host.TypeOracle, hints host.ContributionHintLookup, opts Options) *Orchestrator {
	aliases := make(map[string]symbol.Marker, len(opts.CustomAnnotations))
	for fqn, m := range opts.CustomAnnotations {
		aliases[fqn] = m
	}
	if opts.AllowForeignAnnotations {
		for fqn, m := range symbol.DefaultForeignAliases() {
			aliases[fqn] = m
		}
	}
	markers := symbol.NewMarkerSet(symbol.DefaultCoreFQN(), aliases)
	modelDiags := diag.NewSink()
	model := symbol.NewModel(enum, oracle, markers, modelDiags)
	agg := contrib.NewAggregator(model, hints)

	logger := diag.NewDiscardLogger()
	if opts.Debug {
		logger = diag.NewLogger(true)
	}

	return &Orchestrator{
		opts:       opts,
		model:      model,
		agg:        agg,
		enum:       enum,
		validator:  validate.NewValidator(),
		planner:    codegen.NewPlanner(),
		modelDiags: modelDiags,
		log:        logger,
	}
}

// Run discovers every graph root in enum's compilation unit and runs
// the full pipeline over each (spec.md §4.6). Discovery order is by
// ascending TypeID for reproducibility; AllSymbols itself makes no
// ordering guarantee.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	tracer := trace.NewTracer()
	defer tracer.Finish()

	if !o.opts.Enabled {
		o.log.Debug("orchestrator disabled, skipping run")
		return &Result{Tracer: tracer}, nil
	}

	roots := o.discoverRoots()

	result := &Result{Tracer: tracer}
	for _, rootID := range roots {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		gr := o.runGraph(ctx, tracer, rootID)
		result.Graphs = append(result.Graphs, gr)
	}

	if o.opts.ReportsDir != "" {
		if err := o.writeReports(result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (o *Orchestrator) discoverRoots() []key.TypeID {
	var roots []key.TypeID
	for _, id := range o.enum.AllSymbols() {
		if _, ok := o.model.GraphRoot(id); !ok {
			continue
		}
		// A @GraphExtension is sealed and planned under its parent by
		// sealAndPlan, never as a root of its own.
		if _, isExt := o.model.GraphExtension(id); isExt {
			continue
		}
		roots = append(roots, id)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots
}

// runGraph runs ASM(already shared)->GB->GV->EM for one root, recursing
// into its extension children to seal and plan each in turn (spec.md
// §4.6 "child graphs are built and emitted in the middle of their
// parent's pipeline").
func (o *Orchestrator) runGraph(ctx context.Context, tracer *trace.Tracer, rootID key.TypeID) GraphResult {
	o.log.Debug("building graph", "root", int(rootID))
	pipelineSpan := o.traceStart(tracer, "graph")
	defer o.traceStop(tracer, pipelineSpan)

	modelDiagsBefore := len(o.modelDiags.Diagnostics())
	graphDiags := diag.NewSink()

	gbSpan := o.traceStart(tracer, "gb")
	b := graph.NewBuilder(o.model, o.agg, graphDiags)
	g := b.Build(rootID, nil)
	o.traceStop(tracer, gbSpan)

	gr := GraphResult{RootID: rootID}
	attributed := append([]diag.Diagnostic{}, o.modelDiags.Diagnostics()[modelDiagsBefore:]...)

	if g == nil {
		gr.Diagnostics = append(attributed, graphDiags.Diagnostics()...)
		o.logDiagnostics(gr.Diagnostics)
		return gr
	}

	plan, hasErrors := o.sealAndPlan(ctx, tracer, g, graphDiags)

	gr.Diagnostics = append(attributed, graphDiags.Diagnostics()...)
	o.logDiagnostics(gr.Diagnostics)
	if !hasErrors {
		gr.Plan = plan
	}
	return gr
}

// traceStart starts a span only when opts.Tracing is set, so a disabled
// tracer costs nothing beyond the Result's empty Tracer (spec.md §6
// "tracing: when disabled no span recording or report overhead").
func (o *Orchestrator) traceStart(tracer *trace.Tracer, name string) *trace.Span {
	if !o.opts.Tracing {
		return nil
	}
	return tracer.Start(name)
}

func (o *Orchestrator) traceStop(tracer *trace.Tracer, span *trace.Span) {
	if span == nil {
		return
	}
	tracer.Stop(span)
}

func (o *Orchestrator) logDiagnostics(diags []diag.Diagnostic) {
	for _, d := range diags {
		o.log.Diagnostic(d)
	}
}

// sealAndPlan seals g and every extension child it contains (GV, then
// EM), recursing before returning so a parent Plan's Children are fully
// populated. This is the recursion point intentionally left out of
// internal/codegen.Planner.Plan itself, so that package never has to
// reach into an unsealed child on its own.
func (o *Orchestrator) sealAndPlan(ctx context.Context, tracer *trace.Tracer, g *graph.BindingGraph, diags *diag.Sink) (*codegen.Plan, bool) {
	gvSpan := o.traceStart(tracer, "gv")
	sealed := o.validator.Seal(g, diags)
	hasErrors := diags.HasErrors()
	o.traceStop(tracer, gvSpan)

	emSpan := o.traceStart(tracer, "em")
	plan := o.planner.Plan(sealed)
	o.traceStop(tracer, emSpan)

	for _, child := range g.Children {
		if err := ctx.Err(); err != nil {
			hasErrors = true
			break
		}
		childPlan, childHasErrors := o.sealAndPlan(ctx, tracer, child, diags)
		if childHasErrors {
			hasErrors = true
			continue
		}
		plan.Children = append(plan.Children, childPlan)
	}

	return plan, hasErrors
}

// writeReports persists timings.csv, traceLog.txt, and one
// keys-populated-<GraphName>.txt per graph root (spec.md §6).
func (o *Orchestrator) writeReports(result *Result) error {
	if err := os.MkdirAll(o.opts.ReportsDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(o.opts.ReportsDir, "timings.csv"), []byte(trace.RenderCSV(result.Tracer)), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(o.opts.ReportsDir, "traceLog.txt"), []byte(trace.RenderText(result.Tracer)), 0o644); err != nil {
		return err
	}
	for _, gr := range result.Graphs {
		if gr.Plan == nil {
			continue
		}
		name := "keys-populated-" + gr.Plan.GraphName + ".txt"
		if err := os.WriteFile(filepath.Join(o.opts.ReportsDir, name), []byte(renderKeysPopulated(gr.Plan)), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// renderKeysPopulated lists every field's TypeKey in canonical
// rendering, sorted, one per line, recursing into extension children
// (spec.md §6 "the complete sorted list of TypeKeys that participated
// in the graph").
func renderKeysPopulated(plan *codegen.Plan) string {
	keys := collectKeys(plan, nil)
	sorted := key.SortTypeKeys(keys)
	out := ""
	for _, k := range sorted {
		out += k.String() + "\n"
	}
	return out
}

func collectKeys(plan *codegen.Plan, into []key.TypeKey) []key.TypeKey {
	for _, f := range plan.Fields {
		into = append(into, f.Key)
	}
	for _, child := range plan.Children {
		into = collectKeys(child, into)
	}
	return into
}
