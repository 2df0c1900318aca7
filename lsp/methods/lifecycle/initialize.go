package lifecycle

import (
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	"github.com/DFOP-HD/artic-lsp/internal/version"
	semantictokens "github.com/DFOP-HD/artic-lsp/lsp/methods/textDocument/semanticTokens"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialize handles the LSP initialize request (spec.md §6 "LSP
// surface"): captures the workspace root, applies the restartFromCrash
// initialization option to the Orchestrator's safe mode, and advertises
// capabilities.
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	log.Info("Initializing for client: %s", clientName)

	if params.RootURI != nil {
		req.Server.SetRootURI(*params.RootURI)
		req.Server.SetRootPath(uriutil.URIToPath(*params.RootURI))
	} else if params.RootPath != nil {
		req.Server.SetRootPath(*params.RootPath)
		req.Server.SetRootURI(uriutil.PathToURI(*params.RootPath))
	}
	log.Info("Workspace root: %s", req.Server.RootPath())

	cfg := req.Server.Config()
	if opts, ok := params.InitializationOptions.(map[string]any); ok {
		if restart, ok := opts["restartFromCrash"].(bool); ok {
			cfg.RestartFromCrash = restart
		}
	}
	req.Server.SetConfig(cfg)
	if cfg.RestartFromCrash {
		log.Info("restartFromCrash set: first compile will run in safe mode")
		req.Server.Orchestrator().SetSafeMode(true)
	}

	syncKind := protocol.TextDocumentSyncKindFull
	trueVal := true

	// WORKAROUND: glsp v0.2.2 implements LSP 3.16 only; inlayHintProvider
	// is a 3.17 addition with no field on protocol.ServerCapabilities, so
	// capabilities are built as a map rather than the typed struct.
	capabilities := map[string]any{
		"textDocumentSync": protocol.TextDocumentSyncOptions{
			OpenClose: &trueVal,
			Change:    &syncKind,
		},
		"definitionProvider": true,
		"referencesProvider": true,
		"renameProvider": protocol.RenameOptions{
			PrepareProvider: &trueVal,
		},
		"completionProvider": protocol.CompletionOptions{
			TriggerCharacters: []string{".", ":"},
		},
		"semanticTokensProvider": map[string]any{
			"legend": map[string]any{
				"tokenTypes":     semantictokens.TokenTypes,
				"tokenModifiers": semantictokens.TokenModifiers,
			},
			"full":  true,
			"range": true,
		},
		"inlayHintProvider": true,
	}

	return struct {
		Capabilities any                                   `json:"capabilities"`
		ServerInfo   *protocol.InitializeResultServerInfo `json:"serverInfo,omitempty"`
	}{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "artic-lsp",
			Version: strPtr(version.GetVersion()),
		},
	}, nil
}

func strPtr(s string) *string {
	return &s
}
