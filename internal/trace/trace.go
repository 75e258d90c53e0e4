// Package trace is the Diagnostics & Tracing (DT) cross-cutting span
// recorder (spec.md §4.6): a Tracer records hierarchical start/stop
// spans around pipeline stages with millisecond resolution, then
// renders them as CSV or indented text for the orchestrator's
// persisted reports. Grounded on the teacher's compiler.Compile elapsed-
// time bookkeeping (context.WithTimeout around a pipeline, then reading
// back how long it took) generalized into a reusable hierarchical
// recorder in the style of the pack's dag executor, which tracks a
// duration per named stage across an entire run rather than a single
// elapsed total.
package trace

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Span is one recorded interval: a named stage, its start/stop times,
// and any spans started while it was the active span.
type Span struct {
	Name     string
	Start    time.Time
	End      time.Time
	Parent   *Span
	Children []*Span
}

// Duration reports how long the span ran. A span that was never
// stopped reports zero, never a bogus in-progress value.
func (s *Span) Duration() time.Duration {
	if s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// Tracer records a tree of spans for one pipeline run. The zero value
// is not usable; construct with NewTracer. Start and Stop lock the
// tracer, so spans may be started and stopped from several goroutines;
// the orchestrator itself runs its stages on one goroutine.
type Tracer struct {
	mu   sync.Mutex
	root *Span
	cur  *Span
}

func NewTracer() *Tracer {
	root := &Span{Name: "root", Start: time.Now()}
	return &Tracer{root: root, cur: root}
}

// Start begins a new span as a child of whichever span is currently
// active, and makes it the active span. The returned Span must be
// stopped by the caller; it does not nest automatically past the call
// that started it, so callers typically `defer span.Stop()`.
func (t *Tracer) Start(name string) *Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	parent := t.cur
	s := &Span{Name: name, Start: time.Now(), Parent: parent}
	parent.Children = append(parent.Children, s)
	t.cur = s
	return s
}

// Stop ends span and restores its parent as the active span. Stopping
// a span other than the currently active one still records its own
// end time; it just does not change what Start attaches to next
// (callers that stop out of order get correct durations but a
// differently shaped tree than if they had nested consistently).
func (t *Tracer) Stop(s *Span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s.End = time.Now()
	if t.cur == s {
		t.cur = s.Parent
	}
}

// Finish stops the tracer's root span, covering the whole run.
func (t *Tracer) Finish() {
	t.Stop(t.root)
}

// Root exposes the recorded span tree for rendering.
func (t *Tracer) Root() *Span { return t.root }

// row is one flattened (path, duration) pair, a stage's dotted
// ancestor path from the root down to itself.
type row struct {
	path string
	dur  time.Duration
}

func flatten(s *Span, prefix string) []row {
	path := s.Name
	if prefix != "" {
		path = prefix + "." + s.Name
	}
	rows := []row{{path: path, dur: s.Duration()}}
	children := append([]*Span{}, s.Children...)
	sort.SliceStable(children, func(i, j int) bool { return children[i].Start.Before(children[j].Start) })
	for _, c := range children {
		rows = append(rows, flatten(c, path)...)
	}
	return rows
}

// RenderCSV renders every stage in the span tree under a
// "stage,duration_ms" header, one row per span whose stage column is the
// dotted path, root first then each child depth-first in start order —
// timings.csv (spec.md §6).
func RenderCSV(t *Tracer) string {
	var b strings.Builder
	b.WriteString("stage,duration_ms\n")
	for _, r := range flatten(t.root, "") {
		fmt.Fprintf(&b, "%s,%d\n", r.path, r.dur.Milliseconds())
	}
	return b.String()
}

// RenderText renders the span tree as indented, human-readable lines —
// traceLog.txt (spec.md §6).
func RenderText(t *Tracer) string {
	var b strings.Builder
	renderTextNode(&b, t.root, 0)
	return b.String()
}

func renderTextNode(b *strings.Builder, s *Span, depth int) {
	fmt.Fprintf(b, "%s%s: %dms\n", strings.Repeat("  ", depth), s.Name, s.Duration().Milliseconds())
	children := append([]*Span{}, s.Children...)
	sort.SliceStable(children, func(i, j int) bool { return children[i].Start.Before(children[j].Start) })
	for _, c := range children {
		renderTextNode(b, c, depth+1)
	}
}
