// Package debugast implements the custom artic/debugAst request (spec.md
// §6: "parameters are a standard TextDocumentPositionParams, result is a
// string (or null)"). glsp v0.2.2 has no field for custom methods, so
// lsp.CustomHandler intercepts the raw JSON-RPC envelope and calls Handle
// directly, the same pattern as inlayHint.
package debugast

import (
	"fmt"
	"strings"

	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	"github.com/DFOP-HD/artic-lsp/lsp/helpers"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Handle implements spec.md §4.5 trigger-matrix row 5 for the debug-AST
// request: it may trigger a build the same as definition/references/
// rename/completion. The reference compile frontend builds no real AST,
// so the dump is the resolved symbol plus the result's generation,
// standing in for the real frontend's node dump (SPEC_FULL.md §4.6).
func Handle(req *types.RequestContext, params *protocol.TextDocumentPositionParams) (*string, error) {
	file := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Debug("debugAst requested: %s at %d:%d", file, params.Position.Line, params.Position.Character)

	result := req.Server.Orchestrator().EnsureForSymbolLookup(file)
	index, ok := result.Symbols.(*frontend.SymbolIndex)
	if !ok {
		dump := fmt.Sprintf("generation=%d active=%q (no symbol index)", result.Generation, result.Active)
		return &dump, nil
	}

	text, err := helpers.ReadText(req.Server.Workspace(), file)
	if err != nil {
		dump := fmt.Sprintf("generation=%d active=%q (unreadable: %v)", result.Generation, result.Active, err)
		return &dump, nil
	}

	name, _, ok := helpers.IdentifierAt(text, params.Position)
	if !ok {
		dump := fmt.Sprintf("generation=%d active=%q (no identifier at position)", result.Generation, result.Active)
		return &dump, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "generation=%d active=%q name=%q", result.Generation, result.Active, name)

	if decl, declared := index.Declarations[name]; declared {
		fmt.Fprintf(&b, " decl{file=%q line=%d col=%d function=%t noReturn=%t static=%t readonly=%t}",
			decl.File, decl.Line, decl.Col, decl.Function, decl.NoReturn, decl.Static, decl.Readonly)
	} else {
		b.WriteString(" decl=<unresolved>")
	}

	uses := 0
	for _, u := range index.Uses {
		if u.Name == name {
			uses++
		}
	}
	fmt.Fprintf(&b, " uses=%d", uses)

	dump := b.String()
	return &dump, nil
}
