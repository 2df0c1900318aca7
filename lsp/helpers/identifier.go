package helpers

import (
	"os"
	"regexp"
	"strings"

	"github.com/DFOP-HD/artic-lsp/internal/position"
	"github.com/DFOP-HD/artic-lsp/internal/workspace"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// identifierRegexp matches a declaration name ("foo") or a reference
// ("@foo"), mirroring internal/frontend.Reference's own lexical rules.
var identifierRegexp = regexp.MustCompile(`@?[A-Za-z_][A-Za-z0-9_]*`)

// IdentifierAt locates the bare identifier (the "@" prefix stripped, if
// any) occupying an LSP position within text, along with the LSP range it
// occupies — used by definition, references, prepareRename, and rename to
// find what the cursor is sitting on (spec.md §4.6).
func IdentifierAt(text string, pos protocol.Position) (name string, rng protocol.Range, ok bool) {
	lines := strings.Split(text, "\n")
	lineIdx := int(pos.Line)
	if lineIdx < 0 || lineIdx >= len(lines) {
		return "", protocol.Range{}, false
	}
	lineText := lines[lineIdx]
	byteOffset := position.UTF16ToByteOffset(lineText, int(pos.Character))

	for _, loc := range identifierRegexp.FindAllStringIndex(lineText, -1) {
		if byteOffset < loc[0] || byteOffset > loc[1] {
			continue
		}
		raw := lineText[loc[0]:loc[1]]
		bare := strings.TrimPrefix(raw, "@")
		nameStart := loc[1] - len(bare)
		start := protocol.Position{Line: pos.Line, Character: uint32(position.ByteOffsetToUTF16(lineText, nameStart))}
		end := protocol.Position{Line: pos.Line, Character: uint32(position.ByteOffsetToUTF16(lineText, loc[1]))}
		return bare, protocol.Range{Start: start, End: end}, true
	}
	return "", protocol.Range{}, false
}

// ReadText returns file's content, preferring the arena's editor-supplied
// buffer over on-disk content (spec.md §5 "Shared resources": "File
// contents held by the arena override on-disk contents").
func ReadText(ws *workspace.Workspace, file string) (string, error) {
	if rec, ok := ws.Arena().LookupFile(file); ok && rec.Text != nil {
		return *rec.Text, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
