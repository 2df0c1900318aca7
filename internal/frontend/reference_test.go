package frontend_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceCompileCleanFileHasNoDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.art")
	require.NoError(t, os.WriteFile(path, []byte("let add = (a, b) { a + b }\n"), 0o644))

	out := frontend.NewReference().Compile(frontend.CompileRequest{Files: []string{path}, Active: path})
	assert.True(t, out.ParsedAll)
	assert.Empty(t, out.Diagnostics[path])
}

func TestReferenceCompileUnbalancedDelimiterIsADiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.art")
	require.NoError(t, os.WriteFile(path, []byte("let broken = (a, b { a + b }\n"), 0o644))

	out := frontend.NewReference().Compile(frontend.CompileRequest{Files: []string{path}, Active: path})
	assert.False(t, out.ParsedAll)
	require.NotEmpty(t, out.Diagnostics[path])
}

func TestReferenceCompileUnresolvedNameIsADiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.art")
	require.NoError(t, os.WriteFile(path, []byte("let main = @missing\n"), 0o644))

	out := frontend.NewReference().Compile(frontend.CompileRequest{Files: []string{path}, Active: path})
	require.Len(t, out.Diagnostics[path], 1)
	assert.Contains(t, out.Diagnostics[path][0].Message, "missing")
}

func TestReferenceCompileResolvesNamesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.art")
	b := filepath.Join(dir, "b.art")
	require.NoError(t, os.WriteFile(a, []byte("let helper = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("let main = @helper\n"), 0o644))

	out := frontend.NewReference().Compile(frontend.CompileRequest{Files: []string{a, b}, Active: b})
	assert.Empty(t, out.Diagnostics[b])
}

func TestReferenceCompileUsesBufferOverDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.art")
	require.NoError(t, os.WriteFile(path, []byte("let main = @missing\n"), 0o644))

	out := frontend.NewReference().Compile(frontend.CompileRequest{
		Files:   []string{path},
		Active:  path,
		Buffers: map[string]string{path: "let main = 1\n"},
	})
	assert.Empty(t, out.Diagnostics[path])
}

func TestReferenceCompileBuildsSymbolIndex(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.art")
	b := filepath.Join(dir, "b.art")
	require.NoError(t, os.WriteFile(a, []byte("let helper = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("let main = @helper\n"), 0o644))

	out := frontend.NewReference().Compile(frontend.CompileRequest{Files: []string{a, b}, Active: b})

	index, ok := out.Symbols.(*frontend.SymbolIndex)
	require.True(t, ok)
	decl, ok := index.Declarations["helper"]
	require.True(t, ok)
	assert.Equal(t, a, decl.File)
	require.Len(t, index.Uses, 1)
	assert.Equal(t, "helper", index.Uses[0].Name)

	use, ok := index.UseAt(b, index.Uses[0].Line, index.Uses[0].Col)
	require.True(t, ok)
	assert.Equal(t, "helper", use.Name)
}

func TestReferenceCompileSafeModeSkipsUnbalancedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.art")
	require.NoError(t, os.WriteFile(path, []byte("let broken = (a\n"), 0o644))

	out := frontend.NewReference().Compile(frontend.CompileRequest{Files: []string{path}, Active: path, SafeMode: true})
	assert.False(t, out.ParsedAll)
}
