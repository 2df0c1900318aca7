// Package inlayHint implements textDocument/inlayHint. glsp v0.2.2 only
// implements LSP 3.16 and inlay hints are a 3.17 addition, so
// lsp.CustomHandler intercepts the raw JSON-RPC envelope and calls
// Handle directly; the params/result types below are the minimal 3.17
// shapes this server needs, not a full protocol_3_17 port.
package inlayHint

import (
	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	"github.com/DFOP-HD/artic-lsp/lsp/helpers"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// InlayHintParams is the LSP 3.17 textDocument/inlayHint request params.
type InlayHintParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Range        protocol.Range                  `json:"range"`
}

// InlayHint is the LSP 3.17 InlayHint result item: just enough fields to
// render a trailing type annotation after a declaration name.
type InlayHint struct {
	Position     protocol.Position `json:"position"`
	Label        string            `json:"label"`
	Kind         int               `json:"kind,omitempty"` // 1 = Type, 2 = Parameter
	PaddingLeft  bool              `json:"paddingLeft,omitempty"`
	PaddingRight bool              `json:"paddingRight,omitempty"`
}

const inlayHintKindType = 1

// Handle implements spec.md §4.5 trigger-matrix row 5 for inlay hints: an
// uncovered file yields no hints rather than triggering a compile, the
// same passivity rule as semantic tokens.
func Handle(req *types.RequestContext, params *InlayHintParams) ([]InlayHint, error) {
	file := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Debug("Inlay hints requested: %s", file)

	result := req.Server.Orchestrator().ForPassiveRequest(file)
	index, ok := result.Symbols.(*frontend.SymbolIndex)
	if !ok {
		return nil, nil
	}

	text, err := helpers.ReadText(req.Server.Workspace(), file)
	if err != nil {
		return nil, nil
	}

	var hints []InlayHint
	for _, decl := range index.Declarations {
		if decl.File != file {
			continue
		}
		pos := helpers.ToLSPPosition(text, decl.Line, decl.Col+len([]rune(decl.Name)))
		if !withinRange(pos, params.Range) {
			continue
		}
		label := inlayLabel(decl)
		if label == "" {
			continue
		}
		hints = append(hints, InlayHint{
			Position:    pos,
			Label:       label,
			Kind:        inlayHintKindType,
			PaddingLeft: true,
		})
	}

	return hints, nil
}

// inlayLabel renders the trailing type annotation a declaration's
// inferred shape would carry: ": function", or ": (...) -> !" for a
// function returning the no-return marker, nothing for an ordinary value binding (the reference frontend
// does not infer value types, only function-ness).
func inlayLabel(decl frontend.Symbol) string {
	if !decl.Function {
		return ""
	}
	if decl.NoReturn {
		return ": (...) -> !"
	}
	return ": function"
}

func withinRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}
	return true
}
