package key

import "strconv"

// Location is a 1-indexed line/column position in a host source file.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (l Location) String() string {
	return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// Span is a source range reported by the host's symbol enumerator and
// carried through ASM, the graph, and into diagnostics. The core never
// constructs a Span from raw text; it only ever copies one supplied by
// the host.
type Span struct {
	Start    Location `json:"start"`
	End      Location `json:"end"`
	SourceID int
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

func (s Span) Contains(loc Location) bool {
	return (s.Start.Line < loc.Line || (s.Start.Line == loc.Line && s.Start.Column <= loc.Column)) &&
		(s.End.Line > loc.Line || (s.End.Line == loc.Line && s.End.Column >= loc.Column))
}

func NewSpan(start, end Location, sourceID int) Span {
	return Span{Start: start, End: end, SourceID: sourceID}
}

// MergeSpans returns a span covering both a and b, keeping a's SourceID.
func MergeSpans(a, b Span) Span {
	start, end := a.Start, a.End
	if b.Start.Line < start.Line || (b.Start.Line == start.Line && b.Start.Column < start.Column) {
		start = b.Start
	}
	if b.End.Line > end.Line || (b.End.Line == end.Line && b.End.Column > end.Column) {
		end = b.End
	}
	return Span{Start: start, End: end, SourceID: a.SourceID}
}

// DefaultSpan is used for diagnostics synthesized by the core itself
// (e.g. internal invariant failures) that have no host-supplied position.
var DefaultSpan = Span{
	Start:    Location{Line: 1, Column: 1},
	End:      Location{Line: 1, Column: 1},
	SourceID: -1,
}
