package lifecycle

import (
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the LSP initialized notification: stores the live
// GLSP context for later notifications, performs the reload spec.md §4.4
// requires "on (i) initialization", and registers file watchers for
// source and config files (spec.md §4.5 "Reload ... triggered on ...
// any watched config file created/deleted/changed").
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")

	req.Server.SetGLSPContext(req.GLSP)
	req.Server.Orchestrator().Reload()
	req.Server.RegisterFileWatchers(req.GLSP)

	return nil
}
