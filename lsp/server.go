// Package lsp wires the Compile Orchestrator and Workspace Resolver to a
// glsp transport (spec.md §4.6), grounded on the teacher's lsp/server.go:
// a Server struct implementing types.ServerContext, a protocol.Handler
// wired with one method-or-notify-wrapped handler per spec.md §6 LSP
// surface entry, and stdio transport via github.com/tliron/glsp/server.
package lsp

import (
	"os"

	"github.com/DFOP-HD/artic-lsp/internal/config"
	"github.com/DFOP-HD/artic-lsp/internal/diag"
	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	filewatch "github.com/DFOP-HD/artic-lsp/internal/lsp"
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/orchestrator"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	artworkspace "github.com/DFOP-HD/artic-lsp/internal/workspace"
	"github.com/DFOP-HD/artic-lsp/lsp/helpers"
	"github.com/DFOP-HD/artic-lsp/lsp/methods/lifecycle"
	"github.com/DFOP-HD/artic-lsp/lsp/methods/textDocument"
	"github.com/DFOP-HD/artic-lsp/lsp/methods/textDocument/completion"
	"github.com/DFOP-HD/artic-lsp/lsp/methods/textDocument/definition"
	"github.com/DFOP-HD/artic-lsp/lsp/methods/textDocument/references"
	"github.com/DFOP-HD/artic-lsp/lsp/methods/textDocument/rename"
	semantictokens "github.com/DFOP-HD/artic-lsp/lsp/methods/textDocument/semanticTokens"
	lspworkspace "github.com/DFOP-HD/artic-lsp/lsp/methods/workspace"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	"github.com/segmentio/ksuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server is the artic-lsp process: one Workspace Resolver, one Compile
// Orchestrator, and the glsp transport wired to call into them.
type Server struct {
	ws   *artworkspace.Workspace
	orch *orchestrator.Orchestrator

	glspServer *server.Server
	context    *glsp.Context

	rootURI   string
	rootPath  string
	config    types.ServerConfig
	sessionID string
}

// NewServer creates a new artic-lsp server. The Workspace Resolver and
// Compile Orchestrator are constructed eagerly so handlers can rely on
// them existing even before initialize runs; the workspace root and
// restartFromCrash flag, both only known once initialize fires, are
// applied by lifecycle.Initialize via SetRootPath/SetConfig.
func NewServer() (*Server, error) {
	home, _ := os.UserHomeDir()
	ws := artworkspace.New(home)

	s := &Server{
		ws:        ws,
		orch:      orchestrator.New(ws, frontend.NewReference(), false),
		config:    types.DefaultConfig(),
		sessionID: ksuid.New().String(),
	}

	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", lspworkspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", lspworkspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidSave:             notify(s, "textDocument/didSave", textDocument.DidSave),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentDefinition:          method(s, "textDocument/definition", definition.Definition),
		TextDocumentReferences:          method(s, "textDocument/references", references.References),
		TextDocumentPrepareRename:       method(s, "textDocument/prepareRename", rename.PrepareRename),
		TextDocumentRename:              method(s, "textDocument/rename", rename.Rename),
		TextDocumentCompletion:          method(s, "textDocument/completion", completion.Completion),
		TextDocumentSemanticTokensFull:  method(s, "textDocument/semanticTokens/full", semantictokens.SemanticTokensFull),
		TextDocumentSemanticTokensRange: method(s, "textDocument/semanticTokens/range", semantictokens.SemanticTokensRange),
	}

	// WORKAROUND: glsp v0.2.2 implements LSP 3.16 only. textDocument/inlayHint
	// (3.17) and the custom artic/debugAst request have no field on
	// protocol.Handler, so CustomHandler intercepts their raw JSON-RPC
	// envelopes before falling through to the 3.16 handler.
	customHandler := &CustomHandler{
		Handler: protocolHandler,
		server:  s,
	}

	s.glspServer = server.NewServer(customHandler, "artic-lsp", true)

	return s, nil
}

// RunStdio starts the LSP server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// ServerContext interface implementation

func (s *Server) Workspace() *artworkspace.Workspace       { return s.ws }
func (s *Server) Orchestrator() *orchestrator.Orchestrator { return s.orch }
func (s *Server) RootURI() string                          { return s.rootURI }
func (s *Server) RootPath() string                         { return s.rootPath }
func (s *Server) SetRootURI(uri string)                    { s.rootURI = uri }
func (s *Server) SetRootPath(path string)                  { s.rootPath = path }
func (s *Server) Config() types.ServerConfig                { return s.config }
func (s *Server) SetConfig(cfg types.ServerConfig)          { s.config = cfg }
func (s *Server) GLSPContext() *glsp.Context                { return s.context }
func (s *Server) SetGLSPContext(ctx *glsp.Context)          { s.context = ctx }
func (s *Server) SessionID() string                         { return s.sessionID }

// PublishDiagnostics converts one CompilationResult's per-file compile
// diagnostics to LSP shape and publishes them, one notification per file
// in the compile set, satisfying spec.md §8 property 5 ("diagnostic
// coverage"): a file with no diagnostics still gets an empty publication,
// clearing whatever was shown after the previous build (spec.md §7
// "user-visible behavior").
func (s *Server) PublishDiagnostics(ctx *glsp.Context, result *orchestrator.CompilationResult) {
	if ctx == nil || result == nil {
		return
	}
	for file, diags := range result.PerFile() {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uriutil.PathToURI(file),
			Diagnostics: s.expandAll(file, diags),
		})
	}
}

// PublishConfigDiagnostics publishes the configuration diagnostics
// accumulated while resolving this result's compile set, tagged to
// whichever config file produced each one rather than to a source file.
func (s *Server) PublishConfigDiagnostics(ctx *glsp.Context, result *orchestrator.CompilationResult) {
	if ctx == nil || result == nil {
		return
	}
	byFile := make(map[string][]diag.Diagnostic)
	for _, d := range result.ConfigDiagnostics {
		byFile[d.File] = append(byFile[d.File], d)
	}
	for file, diags := range byFile {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uriutil.PathToURI(file),
			Diagnostics: s.expandAll(file, diags),
		})
	}
}

// expandAll expands every diagnostic for file via literal-context
// expansion, preferring the editor-supplied buffer over on-disk content
// so an unsaved edit's diagnostics land at the right place.
func (s *Server) expandAll(file string, diags []diag.Diagnostic) []protocol.Diagnostic {
	var buffer *string
	if rec, ok := s.ws.Arena().LookupFile(file); ok {
		buffer = rec.Text
	}

	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if buffer != nil {
			out = append(out, helpers.ExpandLiteralInText(d, *buffer)...)
		} else {
			out = append(out, helpers.ExpandLiteral(d)...)
		}
	}
	return out
}

// RegisterFileWatchers registers file watchers with the client for config
// files (.artic-lsp, artic.json, .artic-lsp.yaml) and source files
// (.art, .impala), so workspace/didChangeWatchedFiles events cover both
// trigger-matrix rows that depend on them (spec.md §4.5).
func (s *Server) RegisterFileWatchers(ctx *glsp.Context) {
	if ctx == nil {
		log.Debug("Skipping file watcher registration (no client context)")
		return
	}

	root := s.rootPath
	if root == "" {
		log.Debug("No workspace root; skipping file watcher registration")
		return
	}

	patterns := filewatch.WatchPatterns(root, s.ws.Arena().Projects(), config.Filenames)
	watchers := make([]protocol.FileSystemWatcher, 0, len(patterns))
	for _, p := range patterns {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: p})
	}

	params := protocol.RegistrationParams{
		Registrations: []protocol.Registration{
			{
				ID:     "artic-lsp-file-watcher",
				Method: "workspace/didChangeWatchedFiles",
				RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
					Watchers: watchers,
				},
			},
		},
	}

	// client/registerCapability is a request, not a notification; fired in
	// a goroutine so the single-threaded message loop (spec.md §5) is
	// never blocked waiting for the client's response.
	go func() {
		var result any
		ctx.Call("client/registerCapability", params, &result)
		log.Debug("File watcher registration completed")
	}()

	log.Info("Sent file watcher registration request (%d watchers)", len(watchers))
}
