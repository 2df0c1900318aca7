// Package types holds the dependency-injection surface shared by every LSP
// method handler (spec.md §4.6): the ServerContext interface, grounded on
// the teacher's lsp/types/context.go, and the per-request wrapper around
// it. Handlers depend only on ServerContext, never on *lsp.Server directly,
// so tests can substitute a mock (lsp/testutil) without starting a real
// glsp transport.
package types

import (
	"github.com/DFOP-HD/artic-lsp/internal/orchestrator"
	"github.com/DFOP-HD/artic-lsp/internal/workspace"
	"github.com/tliron/glsp"
)

// ServerContext provides every dependency an LSP method handler needs:
// the Workspace Resolver, the Compile Orchestrator, the workspace root,
// and the live GLSP context used to publish notifications and issue
// client-bound requests (spec.md §4.5, §4.6).
type ServerContext interface {
	// Workspace returns the Workspace Resolver (spec.md §4.4).
	Workspace() *workspace.Workspace

	// Orchestrator returns the Compile Orchestrator (spec.md §4.5).
	Orchestrator() *orchestrator.Orchestrator

	// RootURI/RootPath expose the workspace root captured at initialize.
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Config exposes the client-supplied initialization options.
	Config() ServerConfig
	SetConfig(cfg ServerConfig)

	// GLSPContext is the live protocol context for the in-flight message;
	// handlers use it to call back into the client (e.g.
	// client/registerCapability) rather than holding one long-lived.
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// PublishDiagnostics converts one CompilationResult's diagnostics to
	// LSP shape and publishes them (spec.md §4.5 "Diagnostic routing").
	PublishDiagnostics(ctx *glsp.Context, result *orchestrator.CompilationResult)

	// PublishConfigDiagnostics publishes configuration diagnostics
	// (spec.md §4.5 "Diagnostic routing", literal-context expansion).
	PublishConfigDiagnostics(ctx *glsp.Context, result *orchestrator.CompilationResult)

	// SessionID is a per-process identifier generated once at server
	// construction (SPEC_FULL.md §2, ksuid).
	SessionID() string
}
