package main

import (
	"context"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/metro-di/metro/internal/diag"
	"github.com/metro-di/metro/internal/fixture"
	"github.com/metro-di/metro/internal/orchestrator"
)

// validate decodes uri's document text as a symbol dump, runs the
// full pipeline against it, and publishes every resulting diagnostic
// as an LSP PublishDiagnostics notification (spec.md §7 "errors are
// reported through the host's diagnostic sink"), grounded on the
// teacher's own validate() method in cmd/lsp-server/main.go.
func (s *Server) validate(lspContext *glsp.Context, uri protocol.DocumentUri, text string) {
	enum, err := decodeSymbols(text)
	if err != nil {
		publishDiagnostics(lspContext, uri, []protocol.Diagnostic{decodeErrorDiagnostic(err)})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	o := orchestrator.New(enum, fixture.NewOracle(), fixture.NewHintLookup(), orchestrator.Options{
		Enabled: true,
	})
	result, err := o.Run(ctx)
	if err != nil {
		publishDiagnostics(lspContext, uri, []protocol.Diagnostic{decodeErrorDiagnostic(err)})
		return
	}

	var diagnostics []protocol.Diagnostic
	for _, gr := range result.Graphs {
		for _, d := range gr.Diagnostics {
			diagnostics = append(diagnostics, toProtocolDiagnostic(d))
		}
	}
	publishDiagnostics(lspContext, uri, diagnostics)
}

func publishDiagnostics(lspContext *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	go lspContext.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func toProtocolDiagnostic(d diag.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Severity == diag.SeverityWarning {
		severity = protocol.DiagnosticSeverityWarning
	}
	source := "metro"
	code := string(d.Kind)
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{
				Line:      protocol.UInteger(max0(d.PrimarySpan.Start.Line - 1)),
				Character: protocol.UInteger(max0(d.PrimarySpan.Start.Column - 1)),
			},
			End: protocol.Position{
				Line:      protocol.UInteger(max0(d.PrimarySpan.End.Line - 1)),
				Character: protocol.UInteger(max0(d.PrimarySpan.End.Column - 1)),
			},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: code},
		Source:   &source,
		Message:  d.Message,
	}
}

func decodeErrorDiagnostic(err error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := "metro"
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 0},
		},
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
