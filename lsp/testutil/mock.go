// Package testutil provides a minimal ServerContext stand-in so method
// handlers can be exercised without a real glsp transport, grounded on the
// teacher's lsp/testutil mock server context.
package testutil

import (
	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/DFOP-HD/artic-lsp/internal/orchestrator"
	"github.com/DFOP-HD/artic-lsp/internal/workspace"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	"github.com/tliron/glsp"
)

// MockServerContext implements types.ServerContext with in-memory state
// and no client transport. Published diagnostics are recorded rather than
// sent anywhere, so tests can assert on what would have been published.
type MockServerContext struct {
	ws   *workspace.Workspace
	orch *orchestrator.Orchestrator

	rootURI  string
	rootPath string
	config   types.ServerConfig
	glspCtx  *glsp.Context

	PublishedResults       []*orchestrator.CompilationResult
	PublishedConfigResults []*orchestrator.CompilationResult
}

// NewMockServerContext wires a real Workspace and Orchestrator rooted at
// root, using the reference frontend so handler tests exercise the actual
// compile pipeline rather than a stub.
func NewMockServerContext(root string) *MockServerContext {
	ws := workspace.New(root)
	return &MockServerContext{
		ws:       ws,
		orch:     orchestrator.New(ws, frontend.NewReference(), false),
		rootPath: root,
		config:   types.DefaultConfig(),
	}
}

func (m *MockServerContext) Workspace() *workspace.Workspace         { return m.ws }
func (m *MockServerContext) Orchestrator() *orchestrator.Orchestrator { return m.orch }
func (m *MockServerContext) RootURI() string                        { return m.rootURI }
func (m *MockServerContext) RootPath() string                       { return m.rootPath }
func (m *MockServerContext) SetRootURI(uri string)                  { m.rootURI = uri }
func (m *MockServerContext) SetRootPath(path string)                { m.rootPath = path }
func (m *MockServerContext) Config() types.ServerConfig              { return m.config }
func (m *MockServerContext) SetConfig(cfg types.ServerConfig)        { m.config = cfg }
func (m *MockServerContext) GLSPContext() *glsp.Context              { return m.glspCtx }
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context)        { m.glspCtx = ctx }

func (m *MockServerContext) PublishDiagnostics(ctx *glsp.Context, result *orchestrator.CompilationResult) {
	m.PublishedResults = append(m.PublishedResults, result)
}

func (m *MockServerContext) PublishConfigDiagnostics(ctx *glsp.Context, result *orchestrator.CompilationResult) {
	m.PublishedConfigResults = append(m.PublishedConfigResults, result)
}

func (m *MockServerContext) SessionID() string { return "test-session" }
