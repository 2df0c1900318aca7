package helpers

import (
	"os"
	"strings"

	"github.com/DFOP-HD/artic-lsp/internal/diag"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ExpandLiteral implements spec.md §4.5's diagnostic routing: it scans
// d.File for every occurrence of d.Literal and returns one LSP diagnostic
// per occurrence. An empty literal, an unreadable file, or a literal that
// does not occur in the file all fall back to a single diagnostic at 0:0
// (spec.md §8 property 8, "round-trip of literal contexts").
func ExpandLiteral(d diag.Diagnostic) []protocol.Diagnostic {
	text, err := os.ReadFile(d.File)
	if err != nil {
		return []protocol.Diagnostic{atOrigin(d)}
	}
	return ExpandLiteralInText(d, string(text))
}

// ExpandLiteralInText is ExpandLiteral against caller-supplied text,
// letting the LSP adapter scan an editor buffer (arena.File.Text) rather
// than stale on-disk content when the diagnosed file is open and unsaved.
func ExpandLiteralInText(d diag.Diagnostic, body string) []protocol.Diagnostic {
	if d.Literal == "" {
		return []protocol.Diagnostic{atOrigin(d)}
	}

	var out []protocol.Diagnostic
	offset := 0
	for {
		idx := strings.Index(body[offset:], d.Literal)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(d.Literal)
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: byteOffsetToLSPPosition(body, start),
				End:   byteOffsetToLSPPosition(body, end),
			},
			Severity: severityToLSP(d.Severity),
			Source:   strPtr("artic-lsp"),
			Message:  d.Message,
		})
		offset = end
	}

	if len(out) == 0 {
		return []protocol.Diagnostic{atOrigin(d)}
	}
	return out
}

func atOrigin(d diag.Diagnostic) protocol.Diagnostic {
	zero := protocol.Position{Line: 0, Character: 0}
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: zero, End: zero},
		Severity: severityToLSP(d.Severity),
		Source:   strPtr("artic-lsp"),
		Message:  d.Message,
	}
}

func severityToLSP(s diag.Severity) *protocol.DiagnosticSeverity {
	var sev protocol.DiagnosticSeverity
	switch s {
	case diag.SeverityError:
		sev = protocol.DiagnosticSeverityError
	case diag.SeverityWarning:
		sev = protocol.DiagnosticSeverityWarning
	case diag.SeverityInfo:
		sev = protocol.DiagnosticSeverityInformation
	default:
		sev = protocol.DiagnosticSeverityHint
	}
	return &sev
}

func strPtr(s string) *string { return &s }
