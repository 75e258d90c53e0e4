// Package diag is the structured diagnostic sink shared by every stage
// (spec.md §2 "Diagnostics & Tracing"). It never panics or throws across
// the plugin boundary (spec.md §7) — callers collect Diagnostics and
// hand them back to the host's own reporting surface.
package diag

import (
	"fmt"

	"github.com/metro-di/metro/internal/key"
)

// Kind is the closed taxonomy of diagnostic kinds from spec.md §7.
type Kind string

const (
	KindNotAnnotated                Kind = "NOT_ANNOTATED"
	KindAnnotationConflict          Kind = "ANNOTATION_CONFLICT"
	KindVisibilityViolation         Kind = "VISIBILITY_VIOLATION"
	KindIllegalTarget               Kind = "ILLEGAL_TARGET"
	KindMissingBinding              Kind = "MISSING_BINDING"
	KindDuplicateBinding            Kind = "DUPLICATE_BINDING"
	KindAliasCycle                  Kind = "ALIAS_CYCLE"
	KindGraphCycle                  Kind = "GRAPH_DEPENDENCY_CYCLE"
	KindSelfCycle                   Kind = "SELF_CYCLE"
	KindEmptyMultibinding           Kind = "EMPTY_MULTIBINDING"
	KindMultibindingKeyCollision    Kind = "MULTIBINDING_KEY_COLLISION"
	KindScopeMismatch               Kind = "SCOPE_MISMATCH"
	KindScopeInheritanceViolation   Kind = "SCOPE_INHERITANCE_VIOLATION"
	KindAssistedMismatch            Kind = "ASSISTED_MISMATCH"
	KindAssistedLazyWrap            Kind = "ASSISTED_LAZY_WRAP"
	KindAssistedMapping             Kind = "ASSISTED_MAPPING"
	KindExtensionContract           Kind = "EXTENSION_CONTRACT"
	KindCreatorContract             Kind = "CREATOR_CONTRACT"
	KindCycleDependencyOutsideGraph Kind = "CYCLE_DEPENDENCY_OUTSIDE_GRAPH"
	KindInternal                    Kind = "INTERNAL"
)

// Severity distinguishes fatal diagnostics (the graph produces no
// artifacts, spec.md §7) from advisory warnings (e.g. unreachable
// bindings, spec.md Invariant 7).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one structured error or warning with full source
// attribution. Resolution-chain diagnostics (MissingBinding, cycles)
// populate Chain with the full request path, root first.
type Diagnostic struct {
	Kind           Kind
	Severity       Severity
	PrimarySpan    key.Span
	SecondarySpans []key.Span
	Message        string
	Code           string
	// Chain is the dependency path "root -> A -> B -> X" for
	// resolution-chain errors; empty for declaration-shape errors.
	Chain []key.TypeKey
}

// Error satisfies the standard error interface so a Diagnostic can be
// returned or wrapped wherever Go idiom expects one (e.g. an Internal
// diagnostic aborting a single graph's pipeline).
func (d Diagnostic) Error() string { return d.Message }

// Sink accumulates diagnostics for one graph's pipeline. It never
// aborts on the first error — GV commits to collecting everything
// before reporting (spec.md §4.4.3).
type Sink struct {
	diags []Diagnostic
}

func NewSink() *Sink { return &Sink{} }

func (s *Sink) Report(d Diagnostic) { s.diags = append(s.diags, d) }

func (s *Sink) Errorf(kind Kind, span key.Span, format string, args ...any) {
	s.Report(Diagnostic{Kind: kind, Severity: SeverityError, PrimarySpan: span, Message: fmt.Sprintf(format, args...)})
}

func (s *Sink) Warnf(kind Kind, span key.Span, format string, args ...any) {
	s.Report(Diagnostic{Kind: kind, Severity: SeverityWarning, PrimarySpan: span, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any accumulated diagnostic is fatal. A
// graph with any error produces no emitted artifacts (spec.md §7).
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (s *Sink) Diagnostics() []Diagnostic { return s.diags }

func (s *Sink) Merge(other *Sink) {
	if other == nil {
		return
	}
	s.diags = append(s.diags, other.diags...)
}
