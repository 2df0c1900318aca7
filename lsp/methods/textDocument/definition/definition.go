// Package definition implements textDocument/definition (spec.md §4.6):
// resolve the @-reference or declaration name under the cursor to the
// location of its "let"/"var" declaration, grounded on the teacher's
// lsp/methods/textDocument/definition/definition.go request shape.
package definition

import (
	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	"github.com/DFOP-HD/artic-lsp/lsp/helpers"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Definition implements spec.md §4.5 trigger-matrix row 5 for the
// definition handler: reuse the current compilation result if it already
// covers the requested file, else build for it.
func Definition(req *types.RequestContext, params *protocol.DefinitionParams) (any, error) {
	file := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Debug("Definition requested: %s at %d:%d", file, params.Position.Line, params.Position.Character)

	result := req.Server.Orchestrator().EnsureForSymbolLookup(file)
	index, ok := result.Symbols.(*frontend.SymbolIndex)
	if !ok {
		return nil, nil
	}

	text, err := helpers.ReadText(req.Server.Workspace(), file)
	if err != nil {
		return nil, nil
	}

	name, _, ok := helpers.IdentifierAt(text, params.Position)
	if !ok {
		return nil, nil
	}

	decl, ok := index.Declarations[name]
	if !ok {
		return nil, nil
	}

	declText, err := helpers.ReadText(req.Server.Workspace(), decl.File)
	if err != nil {
		return nil, nil
	}
	declPos := helpers.ToLSPPosition(declText, decl.Line, decl.Col)

	return []protocol.Location{{
		URI:   protocol.DocumentUri(uriutil.PathToURI(decl.File)),
		Range: protocol.Range{Start: declPos, End: declPos},
	}}, nil
}
