package definition

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

const sampleText = "let name = \"world\"\n\nlet message = @name\n"

func writeSample(t *testing.T) (root, path string) {
	t.Helper()
	root = t.TempDir()
	path = filepath.Join(root, "main.art")
	require.NoError(t, os.WriteFile(path, []byte(sampleText), 0o644))
	return root, path
}

func TestDefinitionResolvesReferenceToDeclaration(t *testing.T) {
	root, path := writeSample(t)
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	result, err := Definition(req, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
			Position:     protocol.Position{Line: 2, Character: 15},
		},
	})
	require.NoError(t, err)
	locations, ok := result.([]protocol.Location)
	require.True(t, ok)
	require.Len(t, locations, 1)
	assert.Equal(t, uint32(0), locations[0].Range.Start.Line)
	assert.Equal(t, uint32(4), locations[0].Range.Start.Character)
}

func TestDefinitionOnUnresolvedNameReturnsNil(t *testing.T) {
	root, path := writeSample(t)
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	result, err := Definition(req, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}
