package orchestrator_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/DFOP-HD/artic-lsp/internal/orchestrator"
	"github.com/DFOP-HD/artic-lsp/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func newOrchestrator(restartFromCrash bool) *orchestrator.Orchestrator {
	return orchestrator.New(workspace.New(""), frontend.NewReference(), restartFromCrash)
}

func TestOnOpenBuildsWhenNoResultExists(t *testing.T) {
	root := t.TempDir()
	foo := filepath.Join(root, "foo.art")

	o := newOrchestrator(false)
	result := o.OnOpen(foo, "let main = 1\n")

	require.NotNil(t, result)
	assert.Equal(t, []string{foo}, result.Files)
	assert.Equal(t, 1, result.Generation)
}

func TestOnOpenReusesResultThatAlreadyCoversFile(t *testing.T) {
	root := t.TempDir()
	foo := filepath.Join(root, "foo.art")

	o := newOrchestrator(false)
	first := o.OnOpen(foo, "let main = 1\n")
	second := o.OnOpen(foo, "let main = 2\n")

	assert.Same(t, first, second)
}

func TestOnChangeAlwaysRebuilds(t *testing.T) {
	root := t.TempDir()
	foo := filepath.Join(root, "foo.art")

	o := newOrchestrator(false)
	first := o.OnOpen(foo, "let main = 1\n")
	second := o.OnChange(foo, "let main = @missing\n")

	assert.NotSame(t, first, second)
	assert.NotEmpty(t, second.Diagnostics[filepath.Clean(foo)])
}

func TestOnSaveIsANoOp(t *testing.T) {
	root := t.TempDir()
	foo := filepath.Join(root, "foo.art")

	o := newOrchestrator(false)
	built := o.OnOpen(foo, "let main = 1\n")
	saved := o.OnSave(foo)

	assert.Same(t, built, saved)
}

func TestEnsureForSymbolLookupBuildsOnMiss(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.art")
	b := filepath.Join(root, "b.art")
	write(t, a, "let main = 1\n")
	write(t, b, "let other = 2\n")

	o := newOrchestrator(false)
	o.OnOpen(a, "let main = 1\n")
	result := o.EnsureForSymbolLookup(b)

	assert.Contains(t, result.Files, b)
}

func TestForPassiveRequestNeverRebuilds(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.art")
	b := filepath.Join(root, "b.art")

	o := newOrchestrator(false)
	built := o.OnOpen(a, "let main = 1\n")
	passive := o.ForPassiveRequest(b)

	assert.Empty(t, passive.Files)
	assert.Same(t, built, o.Current())
}

func TestForPassiveRequestReturnsCurrentWhenItCoversFile(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.art")

	o := newOrchestrator(false)
	built := o.OnOpen(a, "let main = 1\n")
	passive := o.ForPassiveRequest(a)

	assert.Same(t, built, passive)
}

func TestReloadInvalidatesCurrentResult(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.art")

	o := newOrchestrator(false)
	o.OnOpen(a, "let main = 1\n")
	require.NotNil(t, o.Current())

	o.Reload()
	assert.Nil(t, o.Current())
}

func TestOnConfigChangedIgnoresUntrackedConfig(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.art")

	o := newOrchestrator(false)
	before := o.OnOpen(a, "let main = 1\n")

	o.OnConfigChanged(filepath.Join(root, "never-loaded.json"))
	assert.Same(t, before, o.Current())
}

func TestOnConfigChangedReloadsTrackedConfig(t *testing.T) {
	root := t.TempDir()
	cfg := filepath.Join(root, "artic.json")
	write(t, cfg, `{"artic-config": "2.0", "projects": [{"name": "main", "files": ["*.art"]}]}`)
	a := filepath.Join(root, "a.art")
	write(t, a, "let main = 1\n")

	o := newOrchestrator(false)
	o.OnOpen(a, "let main = 1\n")
	require.NotNil(t, o.Current())

	o.OnConfigChanged(cfg)
	assert.Nil(t, o.Current())
}

func TestSafeModeClearsOnFirstFullyParsingBuild(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.art")

	o := newOrchestrator(true)
	assert.True(t, o.SafeMode())

	o.OnOpen(a, "let main = 1\n")
	assert.False(t, o.SafeMode())
}

func TestPerFilePublishesEmptyListForCleanFiles(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.art")

	o := newOrchestrator(false)
	result := o.OnOpen(a, "let main = 1\n")

	perFile := result.PerFile()
	require.Contains(t, perFile, filepath.Clean(a))
	assert.Empty(t, perFile[filepath.Clean(a)])
}
