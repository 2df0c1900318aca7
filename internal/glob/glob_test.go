package glob_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/DFOP-HD/artic-lsp/internal/diag"
	"github.com/DFOP-HD/artic-lsp/internal/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWrite(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("// fixture\n"), 0o644))
}

func TestExpandLiteralSegment(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.art"))

	sink := diag.NewSink()
	got := glob.Expand(root, "a.art", "", sink)

	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "a.art"), got[0])
	assert.False(t, sink.HasErrors())
}

func TestExpandDoubleStarCollectsEveryRegularFile(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.art"))
	mustWrite(t, filepath.Join(root, "sub", "b.art"))
	mustWrite(t, filepath.Join(root, "sub", "deeper", "c.art"))

	sink := diag.NewSink()
	got := glob.Expand(root, "**/*.art", "", sink)
	sort.Strings(got)

	assert.Equal(t, []string{
		filepath.Join(root, "a.art"),
		filepath.Join(root, "sub", "b.art"),
		filepath.Join(root, "sub", "deeper", "c.art"),
	}, got)
}

func TestExpandPreservesDepthFirstDiscoveryOrder(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.art"))
	mustWrite(t, filepath.Join(root, "sub", "b.art"))

	sink := diag.NewSink()
	got := glob.Expand(root, "**/*.art", "", sink)

	// a.art is discovered before descending into sub/, matching the
	// depth-first order the algorithm visits directories in.
	require.Len(t, got, 2)
	assert.Equal(t, filepath.Join(root, "a.art"), got[0])
	assert.Equal(t, filepath.Join(root, "sub", "b.art"), got[1])
}

func TestExpandEmptyFilesPattern(t *testing.T) {
	root := t.TempDir()
	sink := diag.NewSink()
	got := glob.Expand(root, "*.art", "", sink)
	assert.Empty(t, got)
	assert.False(t, sink.HasErrors())
}

func TestExpandNonexistentRootIsAnError(t *testing.T) {
	sink := diag.NewSink()
	got := glob.Expand(filepath.Join(os.TempDir(), "definitely-does-not-exist-artic"), "*.art", "", sink)
	assert.Empty(t, got)
	assert.True(t, sink.HasErrors())
}

func TestExpandNonexistentLiteralLastSegmentIsNotAnError(t *testing.T) {
	root := t.TempDir()
	sink := diag.NewSink()
	got := glob.Expand(root, "missing.art", "", sink)
	assert.Empty(t, got)
	assert.False(t, sink.HasErrors())
}

func TestExpandTildePrefixWithHomeSet(t *testing.T) {
	home := t.TempDir()
	mustWrite(t, filepath.Join(home, "tokens", "a.art"))

	sink := diag.NewSink()
	got := glob.Expand("/unused", "~/tokens/a.art", home, sink)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(home, "tokens", "a.art"), got[0])
}

func TestExpandTildePrefixWithoutHomeWarnsAndRootsAtSlash(t *testing.T) {
	sink := diag.NewSink()
	got := glob.Expand("/unused", "~/nonexistent-for-test/a.art", "", sink)
	assert.Empty(t, got)
	assert.NotEmpty(t, sink.All())
	assert.Equal(t, diag.SeverityWarning, sink.All()[0].Severity)
}

func TestExpandWildcardSegmentMatchesFnmatch(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "foo.art"))
	mustWrite(t, filepath.Join(root, "bar.impala"))

	sink := diag.NewSink()
	got := glob.Expand(root, "*.art", "", sink)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "foo.art"), got[0])
}

func TestExpandDirsPerDoubleStarBoundEmitsWarning(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 5; i++ {
		mustWrite(t, filepath.Join(root, "d"+string(rune('a'+i)), "f.art"))
	}

	orig := glob.MaxDirsPerDoubleStar
	glob.MaxDirsPerDoubleStar = 2
	defer func() { glob.MaxDirsPerDoubleStar = orig }()

	sink := diag.NewSink()
	got := glob.Expand(root, "**/*.art", "", sink)

	assert.Less(t, len(got), 5)
	foundWarning := false
	for _, d := range sink.All() {
		if d.Severity == diag.SeverityWarning {
			foundWarning = true
		}
	}
	assert.True(t, foundWarning)
}

func TestExpandEntriesPerWildcardBoundEmitsWarning(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 10; i++ {
		mustWrite(t, filepath.Join(root, "file"+string(rune('a'+i))+".art"))
	}

	orig := glob.MaxEntriesPerWildcard
	glob.MaxEntriesPerWildcard = 3
	defer func() { glob.MaxEntriesPerWildcard = orig }()

	sink := diag.NewSink()
	got := glob.Expand(root, "*.art", "", sink)

	assert.LessOrEqual(t, len(got), 3)
	assert.True(t, sink.HasErrors() == false && len(sink.All()) > 0)
}

func TestExpandIsDeterministicAcrossInvocations(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.art"))
	mustWrite(t, filepath.Join(root, "sub", "b.art"))

	first := glob.Expand(root, "**/*.art", "", diag.NewSink())
	second := glob.Expand(root, "**/*.art", "", diag.NewSink())
	assert.Equal(t, first, second)
}
