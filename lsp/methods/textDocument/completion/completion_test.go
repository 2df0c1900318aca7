package completion

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

const sampleText = "let greeting = (n) -> String {\n  n\n}\n\nlet gr = @gre\n"

func TestCompletionFiltersByPrefix(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.art")
	require.NoError(t, os.WriteFile(path, []byte(sampleText), 0o644))

	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	result, err := Completion(req, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
			Position:     protocol.Position{Line: 4, Character: 13},
		},
	})
	require.NoError(t, err)
	list, ok := result.(*protocol.CompletionList)
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "greeting", list.Items[0].Label)
	assert.Equal(t, protocol.CompletionItemKindFunction, *list.Items[0].Kind)
}
