package debugast

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DFOP-HD/artic-lsp/lsp/testutil"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const sampleText = "static let name = \"world\"\n\nlet greeting = @name\n"

func TestHandleDumpsTheResolvedDeclarationAtPosition(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.art")
	require.NoError(t, os.WriteFile(path, []byte(sampleText), 0o644))

	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	dump, err := Handle(req, &protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
		Position:     protocol.Position{Line: 2, Character: 17},
	})
	require.NoError(t, err)
	require.NotNil(t, dump)
	assert.Contains(t, *dump, `name="name"`)
	assert.Contains(t, *dump, "static=true")
	assert.Contains(t, *dump, "uses=1")
}

func TestHandleOnPositionWithNoIdentifierReportsUnresolved(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.art")
	require.NoError(t, os.WriteFile(path, []byte(sampleText), 0o644))

	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	dump, err := Handle(req, &protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
		Position:     protocol.Position{Line: 1, Character: 0},
	})
	require.NoError(t, err)
	require.NotNil(t, dump)
	assert.True(t, strings.Contains(*dump, "no identifier at position"))
}
