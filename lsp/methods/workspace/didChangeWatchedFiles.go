package workspace

import (
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles handles the workspace/didChangeWatchedFiles
// notification. Its only job is to route configuration-file events to the
// Compile Orchestrator's per-config-change reload path (spec.md §4.5
// trigger-matrix row 4): Orchestrator.OnConfigChanged already discards
// paths the workspace never resolved a config from, so every change,
// create, and delete event on a watched config path is forwarded
// unconditionally and the cheap check happens on the other side.
//
// A reload invalidates the current result without rebuilding it (spec.md
// §4.4 "a reload ... does not itself trigger a rebuild"), so there is
// deliberately no diagnostic republish here; the next symbol-lookup or
// passive request rebuilds and republishes as usual.
//
// Source-file events (.art/.impala) are not forwarded here: an open
// buffer's content arrives via textDocument/didChange, and an on-disk-only
// file is picked up the next time compilation walks the project that
// includes it, per spec.md §4.4 "Compile set materialization".
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Info("Watched files changed: %d files", len(params.Changes))

	for _, change := range params.Changes {
		path := uriutil.URIToPath(change.URI)
		log.Debug("File change: %s (type: %d)", path, change.Type)
		req.Server.Orchestrator().OnConfigChanged(path)
	}

	return nil
}
