package diag

import "strings"

// Render produces the single-line human-readable form of a Diagnostic
// used by the CLI and by persisted reports, grounded on the teacher's
// checker.Error.Message() convention of a self-contained message string
// and on go.uber.org/dig's cycle-path rendering (cycle.go) for the
// "root -> A -> B -> X" chain suffix spec.md §7 requires.
func (d Diagnostic) Render() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteString("[")
	b.WriteString(string(d.Kind))
	b.WriteString("] ")
	b.WriteString(d.PrimarySpan.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	if len(d.Chain) > 0 {
		parts := make([]string, len(d.Chain))
		for i, k := range d.Chain {
			parts[i] = k.String()
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, " -> "))
		b.WriteString(")")
	}
	return b.String()
}
