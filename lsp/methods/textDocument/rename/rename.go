// Package rename implements textDocument/prepareRename and
// textDocument/rename (spec.md §4.6, "rename with prepareProvider"),
// grounded on the glsp-based rename handler shape seen across the
// retrieved pack (e.g. a PrepareRename returning `any` and a Rename
// returning *protocol.WorkspaceEdit).
package rename

import (
	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	"github.com/DFOP-HD/artic-lsp/lsp/helpers"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// PrepareRename reports whether the identifier under the cursor resolves
// to a known declaration and, if so, the range that will be replaced. A
// cursor sitting on anything else (whitespace, punctuation, an unresolved
// reference) returns nil, signalling the client that nothing there can be
// renamed.
func PrepareRename(req *types.RequestContext, params *protocol.PrepareRenameParams) (any, error) {
	file := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Debug("PrepareRename requested: %s at %d:%d", file, params.Position.Line, params.Position.Character)

	result := req.Server.Orchestrator().EnsureForSymbolLookup(file)
	index, ok := result.Symbols.(*frontend.SymbolIndex)
	if !ok {
		return nil, nil
	}

	text, err := helpers.ReadText(req.Server.Workspace(), file)
	if err != nil {
		return nil, nil
	}

	name, rng, ok := helpers.IdentifierAt(text, params.Position)
	if !ok {
		return nil, nil
	}
	if _, declared := index.Declarations[name]; !declared {
		return nil, nil
	}

	return &rng, nil
}

// Rename replaces every occurrence (declaration and all uses) of the
// identifier under the cursor with params.NewName, across every file in
// the current compile set.
func Rename(req *types.RequestContext, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	file := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Info("Rename requested: %s at %d:%d -> %q", file, params.Position.Line, params.Position.Character, params.NewName)

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
	decl, declared := index.Declarations[name]
	if !declared {
		return nil, nil
	}

	edits := make(map[string][]protocol.TextEdit)

	declText, err := helpers.ReadText(req.Server.Workspace(), decl.File)
	if err == nil {
		pos := helpers.ToLSPPosition(declText, decl.Line, decl.Col)
		end := helpers.ToLSPPosition(declText, decl.Line, decl.Col+len([]rune(decl.Name)))
		edits[decl.File] = append(edits[decl.File], protocol.TextEdit{
			Range:   protocol.Range{Start: pos, End: end},
			NewText: params.NewName,
		})
	}

	textByFile := map[string]string{decl.File: declText}
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
		// use.Col is the position of the "@" sigil (internal/frontend.Symbol
		// convention for a Uses entry); the replaced range is the bare name
		// that follows it, leaving the sigil untouched.
		nameCol := use.Col + 1
		start := helpers.ToLSPPosition(useText, use.Line, nameCol)
		end := helpers.ToLSPPosition(useText, use.Line, nameCol+len([]rune(use.Name)))
		edits[use.File] = append(edits[use.File], protocol.TextEdit{
			Range:   protocol.Range{Start: start, End: end},
			NewText: params.NewName,
		})
	}

	changes := make(map[protocol.DocumentUri][]protocol.TextEdit, len(edits))
	for f, es := range edits {
		changes[protocol.DocumentUri(uriutil.PathToURI(f))] = es
	}

	return &protocol.WorkspaceEdit{Changes: changes}, nil
}
