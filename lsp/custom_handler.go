package lsp

import (
	"encoding/json"

	"github.com/DFOP-HD/artic-lsp/lsp/methods/debugast"
	"github.com/DFOP-HD/artic-lsp/lsp/methods/textDocument/inlayHint"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CustomHandler wraps protocol.Handler to add custom method support.
//
// WORKAROUND: glsp v0.2.2 implements LSP 3.16 only. textDocument/inlayHint
// is a 3.17 addition and artic/debugAst is not part of LSP at all, so
// neither has a field on protocol.Handler; this wrapper intercepts their
// raw JSON-RPC envelopes before falling through to the 3.16 handler.
//
// NOTE: textDocument/semanticTokens/full/delta is not intercepted here.
// Delta support is disabled in capabilities (see lifecycle.Initialize)
// because the implementation lacks result caching and diffing across
// requests, which would require its own resultId bookkeeping.
type CustomHandler struct {
	*protocol.Handler // pointer to avoid copying the embedded mutex
	server            *Server
}

// Handle implements glsp.Handler.
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	switch context.Method {
	case "textDocument/inlayHint":
		var params inlayHint.InlayHintParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		req := types.NewRequestContext(h.server, context)
		result, err := inlayHint.Handle(req, &params)
		if err != nil {
			return nil, true, true, err
		}
		return result, true, true, nil

	case "artic/debugAst":
		var params protocol.TextDocumentPositionParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		req := types.NewRequestContext(h.server, context)
		result, err := debugast.Handle(req, &params)
		if err != nil {
			return nil, true, true, err
		}
		return result, true, true, nil
	}

	return h.Handler.Handle(context)
}
