package inlayHint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DFOP-HD/artic-lsp/lsp/testutil"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const sampleText = "let greeting = (n) -> String {\n  n\n}\n\nlet answer = 42\n"

func writeSample(t *testing.T) (root, path string) {
	t.Helper()
	root = t.TempDir()
	path = filepath.Join(root, "main.art")
	require.NoError(t, os.WriteFile(path, []byte(sampleText), 0o644))
	return root, path
}

func TestHandleAnnotatesFunctionDeclarationsOnly(t *testing.T) {
	root, path := writeSample(t)
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	// Inlay hints never trigger a build, so the file must already be covered.
	mock.Orchestrator().OnOpen(path, sampleText)

	hints, err := Handle(req, &InlayHintParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 4, Character: 0},
		},
	})
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, ": function", hints[0].Label)
}

func TestHandleReturnsNoHintsForUncoveredFile(t *testing.T) {
	root, path := writeSample(t)
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	hints, err := Handle(req, &InlayHintParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
		Range: protocol.Range{
			End: protocol.Position{Line: 10, Character: 0},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, hints)
}
