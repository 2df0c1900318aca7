package references

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

const sampleText = "let name = \"world\"\n\nlet greeting = @name\nlet farewell = @name\n"

func writeSample(t *testing.T) (root, path string) {
	t.Helper()
	root = t.TempDir()
	path = filepath.Join(root, "main.art")
	require.NoError(t, os.WriteFile(path, []byte(sampleText), 0o644))
	return root, path
}

func TestReferencesFindsEveryUseExcludingDeclaration(t *testing.T) {
	root, path := writeSample(t)
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	locations, err := References(req, &protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
			Position:     protocol.Position{Line: 2, Character: 17},
		},
		Context: protocol.ReferenceContext{IncludeDeclaration: false},
	})
	require.NoError(t, err)
	assert.Len(t, locations, 2)
}

func TestReferencesIncludesDeclarationWhenRequested(t *testing.T) {
	root, path := writeSample(t)
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	locations, err := References(req, &protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
			Position:     protocol.Position{Line: 2, Character: 17},
		},
		Context: protocol.ReferenceContext{IncludeDeclaration: true},
	})
	require.NoError(t, err)
	assert.Len(t, locations, 3)
}
