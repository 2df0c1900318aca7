package helpers

import (
	"strings"

	"github.com/DFOP-HD/artic-lsp/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ToLSPPosition converts a 1-based (line, col) pair — col counted in runes
// within the line, per internal/frontend.Symbol's convention — to an LSP
// 0-based, UTF-16-code-unit Position (spec.md §4.6 "coordinate conversion").
func ToLSPPosition(text string, line, col int) protocol.Position {
	lines := strings.Split(text, "\n")
	lineIdx := line - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	if lineIdx >= len(lines) {
		return protocol.Position{Line: uint32(lineIdx), Character: 0}
	}
	lineText := lines[lineIdx]
	byteOffset := runeIndexToByteOffset(lineText, col-1)
	return protocol.Position{
		Line:      uint32(lineIdx),
		Character: uint32(position.ByteOffsetToUTF16(lineText, byteOffset)),
	}
}

// FromLSPPosition is the inverse of ToLSPPosition: an LSP 0-based UTF-16
// position to a 1-based (line, col) pair in rune units.
func FromLSPPosition(text string, pos protocol.Position) (line, col int) {
	lines := strings.Split(text, "\n")
	lineIdx := int(pos.Line)
	if lineIdx < 0 || lineIdx >= len(lines) {
		return lineIdx + 1, 1
	}
	lineText := lines[lineIdx]
	byteOffset := position.UTF16ToByteOffset(lineText, int(pos.Character))
	return lineIdx + 1, byteOffsetToRuneIndex(lineText, byteOffset) + 1
}

// byteOffsetToLSPPosition converts a byte offset into the whole document
// text to an LSP 0-based, UTF-16 Position, used by the literal-context
// expansion where matches are found via byte-oriented string search.
func byteOffsetToLSPPosition(text string, byteOffset int) protocol.Position {
	if byteOffset > len(text) {
		byteOffset = len(text)
	}
	head := text[:byteOffset]
	line := strings.Count(head, "\n")
	lineStart := strings.LastIndex(head, "\n") + 1
	lineText := head[lineStart:]
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(position.ByteOffsetToUTF16(lineText, byteOffset-lineStart)),
	}
}

func runeIndexToByteOffset(s string, runeIdx int) int {
	if runeIdx <= 0 {
		return 0
	}
	count := 0
	for i := range s {
		if count == runeIdx {
			return i
		}
		count++
	}
	return len(s)
}

func byteOffsetToRuneIndex(s string, byteOffset int) int {
	count := 0
	for i := range s {
		if i >= byteOffset {
			break
		}
		count++
	}
	return count
}
