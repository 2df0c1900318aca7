package rename

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

const sampleText = "let name = \"world\"\n\nlet greeting = @name\n"

func writeSample(t *testing.T) (root, path string) {
	t.Helper()
	root = t.TempDir()
	path = filepath.Join(root, "main.art")
	require.NoError(t, os.WriteFile(path, []byte(sampleText), 0o644))
	return root, path
}

func TestPrepareRenameOnDeclaredNameReturnsItsRange(t *testing.T) {
	root, path := writeSample(t)
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	result, err := PrepareRename(req, &protocol.PrepareRenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
			Position:     protocol.Position{Line: 0, Character: 5},
		},
	})
	require.NoError(t, err)
	rng, ok := result.(*protocol.Range)
	require.True(t, ok)
	assert.Equal(t, uint32(4), rng.Start.Character)
	assert.Equal(t, uint32(8), rng.End.Character)
}

func TestPrepareRenameOnUnknownTokenReturnsNil(t *testing.T) {
	root, path := writeSample(t)
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	result, err := PrepareRename(req, &protocol.PrepareRenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRenameReplacesDeclarationAndEveryUse(t *testing.T) {
	root, path := writeSample(t)
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	edit, err := Rename(req, &protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
			Position:     protocol.Position{Line: 0, Character: 5},
		},
		NewName: "subject",
	})
	require.NoError(t, err)
	require.NotNil(t, edit)

	uri := protocol.DocumentUri("file://" + path)
	edits, ok := edit.Changes[uri]
	require.True(t, ok)
	require.Len(t, edits, 2)

	for _, e := range edits {
		assert.Equal(t, "subject", e.NewText)
	}

	// The use-site edit must not include the "@" sigil in its range.
	var useEdit protocol.TextEdit
	for _, e := range edits {
		if e.Range.Start.Line == 2 {
			useEdit = e
		}
	}
	assert.Equal(t, uint32(16), useEdit.Range.Start.Character)
	assert.Equal(t, uint32(20), useEdit.Range.End.Character)
}
