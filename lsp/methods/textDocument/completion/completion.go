// Package completion implements textDocument/completion (spec.md §4.6,
// "completion with trigger characters `.` and `:`"), grounded on the
// teacher's lsp/methods/textDocument/completion/completion.go: filter
// every candidate by the in-progress word, attach a CompletionItemKind
// derived from the symbol's declaration kind, and return a
// CompletionList rather than a bare slice.
package completion

import (
	"strings"

	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	"github.com/DFOP-HD/artic-lsp/lsp/helpers"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Completion offers every declared name in the current compile set whose
// name starts with the partial identifier under the cursor (spec.md §4.5
// trigger-matrix row 5: a symbol-lookup request may trigger a build if the
// target file is not yet covered).
func Completion(req *types.RequestContext, params *protocol.CompletionParams) (any, error) {
	file := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Debug("Completion requested: %s at %d:%d", file, params.Position.Line, params.Position.Character)

	result := req.Server.Orchestrator().EnsureForSymbolLookup(file)
	index, ok := result.Symbols.(*frontend.SymbolIndex)
	if !ok {
		return nil, nil
	}

	text, err := helpers.ReadText(req.Server.Workspace(), file)
	if err != nil {
		return nil, nil
	}

	prefix, _, _ := helpers.IdentifierAt(text, params.Position)

	var items []protocol.CompletionItem
	for name, decl := range index.Declarations {
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		items = append(items, completionItem(decl))
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// completionItem maps a declaration's shape to a CompletionItemKind,
// mirroring spec.md §6's semantic-token kind derivation: function-valued
// declarations get CompletionItemKindFunction, everything else
// CompletionItemKindVariable.
func completionItem(decl frontend.Symbol) protocol.CompletionItem {
	kind := protocol.CompletionItemKindVariable
	detail := "let"
	if !decl.Readonly {
		detail = "var"
	}
	if decl.Function {
		kind = protocol.CompletionItemKindFunction
		detail = "function"
	}
	if decl.Static {
		detail = "static " + detail
	}

	return protocol.CompletionItem{
		Label:  decl.Name,
		Kind:   &kind,
		Detail: &detail,
	}
}
