package types

import (
	"errors"
	"testing"

	"github.com/DFOP-HD/artic-lsp/internal/orchestrator"
	"github.com/DFOP-HD/artic-lsp/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/tliron/glsp"
)

func TestRequestContext_AddWarning(t *testing.T) {
	mockServer := NewMockServerContextForTest()
	glspCtx := &glsp.Context{Method: "test"}
	req := NewRequestContext(mockServer, glspCtx)

	assert.False(t, req.HasWarnings())
	assert.Nil(t, req.Warnings())

	err1 := errors.New("warning 1")
	err2 := errors.New("warning 2")
	req.AddWarning(err1)
	req.AddWarning(err2)

	assert.True(t, req.HasWarnings())
	warnings := req.Warnings()
	assert.Len(t, warnings, 2)
	assert.Equal(t, err1, warnings[0])
	assert.Equal(t, err2, warnings[1])
}

func TestRequestContext_AddWarning_Nil(t *testing.T) {
	req := NewRequestContext(nil, nil)
	req.AddWarning(nil)
	assert.False(t, req.HasWarnings())
}

func TestRequestContext_ContextAccess(t *testing.T) {
	mockServer := NewMockServerContextForTest()
	glspCtx := &glsp.Context{Method: "testMethod"}
	req := NewRequestContext(mockServer, glspCtx)

	assert.Equal(t, mockServer, req.Server)
	assert.Equal(t, glspCtx, req.GLSP)
	assert.Equal(t, "testMethod", req.GLSP.Method)
}

// NewMockServerContextForTest returns a minimal ServerContext stub, just
// enough to exercise RequestContext in isolation.
func NewMockServerContextForTest() *mockServerContextMinimal {
	return &mockServerContextMinimal{ws: workspace.New("")}
}

type mockServerContextMinimal struct {
	ws *workspace.Workspace
}

func (m *mockServerContextMinimal) Workspace() *workspace.Workspace         { return m.ws }
func (m *mockServerContextMinimal) Orchestrator() *orchestrator.Orchestrator { return nil }
func (m *mockServerContextMinimal) RootURI() string                        { return "" }
func (m *mockServerContextMinimal) RootPath() string                       { return "" }
func (m *mockServerContextMinimal) SetRootURI(uri string)                  {}
func (m *mockServerContextMinimal) SetRootPath(path string)                {}
func (m *mockServerContextMinimal) Config() ServerConfig                   { return ServerConfig{} }
func (m *mockServerContextMinimal) SetConfig(cfg ServerConfig)             {}
func (m *mockServerContextMinimal) GLSPContext() *glsp.Context             { return nil }
func (m *mockServerContextMinimal) SetGLSPContext(ctx *glsp.Context)       {}
func (m *mockServerContextMinimal) PublishDiagnostics(ctx *glsp.Context, result *orchestrator.CompilationResult) {
}
func (m *mockServerContextMinimal) PublishConfigDiagnostics(ctx *glsp.Context, result *orchestrator.CompilationResult) {
}
func (m *mockServerContextMinimal) SessionID() string { return "test-session" }
