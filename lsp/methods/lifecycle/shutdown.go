package lifecycle

import (
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
)

// Shutdown handles the LSP shutdown request (spec.md §5 "Cancellation &
// timeouts"). The loop itself is stopped by glsp's transport once the
// matching exit notification arrives; there is no per-process state here
// to tear down.
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")
	return nil
}
