// Package references implements textDocument/references (spec.md §4.6):
// every @-reference to the identifier under the cursor, plus its
// declaration site when the client asked for it, grounded on the
// teacher's lsp/methods/textDocument/references/references.go request
// shape.
package references

import (
	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	"github.com/DFOP-HD/artic-lsp/lsp/helpers"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// References implements spec.md §4.5 trigger-matrix row 5 for the
// references handler.
func References(req *types.RequestContext, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	file := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Debug("References requested: %s at %d:%d", file, params.Position.Line, params.Position.Character)

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
	if _, declared := index.Declarations[name]; !declared {
		return nil, nil
	}

	var locations []protocol.Location

	if params.Context.IncludeDeclaration {
		decl := index.Declarations[name]
		declText, err := helpers.ReadText(req.Server.Workspace(), decl.File)
		if err == nil {
			pos := helpers.ToLSPPosition(declText, decl.Line, decl.Col)
			locations = append(locations, protocol.Location{
				URI:   protocol.DocumentUri(uriutil.PathToURI(decl.File)),
				Range: protocol.Range{Start: pos, End: pos},
			})
		}
	}

	textByFile := make(map[string]string)
	for _, use := range index.Uses {
		if use.Name != name {
			continue
		}
		useText, ok := textByFile[use.File]
		if !ok {
			useText, err = helpers.ReadText(req.Server.Workspace(), use.File)
			if err != nil {
				continue
			}
			textByFile[use.File] = useText
		}
		pos := helpers.ToLSPPosition(useText, use.Line, use.Col)
		locations = append(locations, protocol.Location{
			URI:   protocol.DocumentUri(uriutil.PathToURI(use.File)),
			Range: protocol.Range{Start: pos, End: pos},
		})
	}

	return locations, nil
}
