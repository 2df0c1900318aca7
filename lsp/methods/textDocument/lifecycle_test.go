package textDocument

import (
	"path/filepath"
	"testing"

	"github.com/DFOP-HD/artic-lsp/lsp/testutil"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDidOpenPublishesDiagnosticsForTheOpenedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.art")
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	err := DidOpen(req, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  protocol.DocumentUri("file://" + path),
			Text: "let main = @missing\n",
		},
	})
	require.NoError(t, err)
	require.Len(t, mock.PublishedResults, 1)
	assert.NotEmpty(t, mock.PublishedResults[0].Diagnostics[filepath.Clean(path)])
}

func TestDidChangeRebuildsOnEveryCall(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.art")
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	require.NoError(t, DidOpen(req, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  protocol.DocumentUri("file://" + path),
			Text: "let main = 1\n",
		},
	}))
	first := mock.Orchestrator().Current()

	require.NoError(t, DidChange(req, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
		},
		ContentChanges: []any{
			map[string]any{"text": "let main = 2\n"},
		},
	}))
	second := mock.Orchestrator().Current()

	assert.NotSame(t, first, second)
}

func TestDidCloseDropsTheEditorBuffer(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.art")
	mock := testutil.NewMockServerContext(root)
	req := types.NewRequestContext(mock, nil)

	require.NoError(t, DidOpen(req, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  protocol.DocumentUri("file://" + path),
			Text: "let main = 1\n",
		},
	}))

	require.NoError(t, DidClose(req, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri("file://" + path)},
	}))

	f, ok := mock.Workspace().Arena().LookupFile(filepath.Clean(path))
	require.True(t, ok)
	assert.Nil(t, f.Text)
}
