// Package textDocument implements the open/change/save/close notification
// handlers of spec.md §4.5's trigger matrix, grounded on the teacher's
// lsp/methods/textDocument/lifecycle.go. Each handler's only job is
// translating the LSP notification shape into one Orchestrator call and
// publishing whatever CompilationResult that call produced.
package textDocument

import (
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen implements spec.md §4.5 trigger-matrix row 1: store the editor's
// full text, rebuild only if no result exists yet or the existing one
// does not already cover this file, and publish whatever the orchestrator
// returns.
func DidOpen(req *types.RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	path := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Info("Document opened: %s", path)

	result := req.Server.Orchestrator().OnOpen(path, params.TextDocument.Text)
	req.Server.PublishDiagnostics(req.GLSP, result)
	req.Server.PublishConfigDiagnostics(req.GLSP, result)
	return nil
}

// DidChange implements trigger-matrix row 2: store the new full-sync text
// and unconditionally rebuild. Only full-document sync is advertised
// (spec.md §4.6 "full-text document sync"), so the last content-change
// event carries the entire new text.
func DidChange(req *types.RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	path := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Info("Document changed: %s (%d change(s))", path, len(params.ContentChanges))

	text, ok := latestFullText(params.ContentChanges)
	if !ok {
		return nil
	}

	result := req.Server.Orchestrator().OnChange(path, text)
	req.Server.PublishDiagnostics(req.GLSP, result)
	req.Server.PublishConfigDiagnostics(req.GLSP, result)
	return nil
}

// DidSave implements trigger-matrix row 3: a no-op, since didChange already
// reflects the saved content (spec.md §4.5).
func DidSave(req *types.RequestContext, params *protocol.DidSaveTextDocumentParams) error {
	path := uriutil.URIToPath(string(params.TextDocument.URI))
	req.Server.Orchestrator().OnSave(path)
	return nil
}

// DidClose drops the editor-supplied buffer; subsequent reads fall back to
// disk (spec.md §3 "File" lifecycle).
func DidClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	path := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Info("Document closed: %s", path)
	req.Server.Orchestrator().OnClose(path)
	return nil
}

// latestFullText extracts the full replacement text from a full-sync
// didChange notification: with TextDocumentSyncKindFull the client always
// sends exactly one change event carrying the document's entire new text
// (Range left unset), but the last event in the slice wins regardless.
func latestFullText(changes []any) (string, bool) {
	if len(changes) == 0 {
		return "", false
	}
	last := changes[len(changes)-1]
	switch c := last.(type) {
	case protocol.TextDocumentContentChangeEvent:
		return c.Text, true
	case map[string]any:
		if text, ok := c["text"].(string); ok {
			return text, true
		}
	}
	return "", false
}
