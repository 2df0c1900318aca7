// Package semanticTokens implements textDocument/semanticTokens/full and
// .../range (spec.md §6 "Semantic-token encoding"), grounded on the
// teacher's lsp/methods/textDocument/semanticTokens/semanticTokens.go
// delta-encoding shape. Declaration kind and a reference's resolved type
// both fold into the same TokenTypes/TokenModifiers legend that
// lifecycle.Initialize advertises.
package semantictokens

import (
	"sort"

	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/internal/uriutil"
	"github.com/DFOP-HD/artic-lsp/lsp/helpers"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// TokenTypes and TokenModifiers are the legend advertised in
// semanticTokensProvider.legend at initialize; indices here are exactly
// the bit/array positions encoded below.
var (
	TokenTypes = []string{"variable", "function", "keyword"}

	TokenModifiers = []string{"declaration", "definition", "readonly", "static"}
)

const (
	tokenTypeVariable = iota
	tokenTypeFunction
	tokenTypeKeyword
)

const (
	modDeclaration = 1 << iota
	modDefinition
	modReadonly
	modStatic
)

// intermediateToken is one token before delta-encoding, in absolute
// (line, start) coordinates, both LSP 0-based UTF-16 code units.
type intermediateToken struct {
	line      uint32
	startChar uint32
	length    uint32
	tokenType uint32
	modifiers uint32
}

// tokenKind derives the LSP token type for any declaration or resolved
// reference (spec.md §6: "a reference whose resolved type is a function
// type is encoded as function; a reference whose codomain is the
// no-return marker is encoded as keyword").
func tokenKind(sym frontend.Symbol) uint32 {
	if sym.Function && sym.NoReturn {
		return tokenTypeKeyword
	}
	if sym.Function {
		return tokenTypeFunction
	}
	return tokenTypeVariable
}

// collectTokens builds every declaration-site and use-site token for the
// files covered by index, sorted by (line, start) as required before
// delta encoding.
func collectTokens(index *frontend.SymbolIndex, textByFile map[string]string) []intermediateToken {
	var tokens []intermediateToken

	for _, decl := range index.Declarations {
		text, ok := textByFile[decl.File]
		if !ok {
			continue
		}
		pos := helpers.ToLSPPosition(text, decl.Line, decl.Col)
		modifiers := uint32(modDeclaration | modDefinition)
		if decl.Readonly {
			modifiers |= modReadonly
		}
		if decl.Static {
			modifiers |= modStatic
		}
		tokens = append(tokens, intermediateToken{
			line:      pos.Line,
			startChar: pos.Character,
			length:    uint32(len([]rune(decl.Name))),
			tokenType: tokenKind(decl),
			modifiers: modifiers,
		})
	}

	for _, use := range index.Uses {
		text, ok := textByFile[use.File]
		if !ok {
			continue
		}
		decl, resolved := index.Resolved(use)
		tokenType := uint32(tokenTypeVariable)
		var modifiers uint32
		if resolved {
			tokenType = tokenKind(decl)
			if decl.Readonly {
				modifiers |= modReadonly
			}
			if decl.Static {
				modifiers |= modStatic
			}
		}
		// use.Col sits on the "@" sigil; the token itself is the bare name.
		pos := helpers.ToLSPPosition(text, use.Line, use.Col+1)
		tokens = append(tokens, intermediateToken{
			line:      pos.Line,
			startChar: pos.Character,
			length:    uint32(len([]rune(use.Name))),
			tokenType: tokenType,
			modifiers: modifiers,
		})
	}

	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].line != tokens[j].line {
			return tokens[i].line < tokens[j].line
		}
		return tokens[i].startChar < tokens[j].startChar
	})

	return tokens
}

// encode converts absolute tokens to LSP's delta-encoded uint32 array:
// deltaLine, deltaStart, length, tokenType, tokenModifiers per token.
func encode(tokens []intermediateToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32
	for i, t := range tokens {
		deltaLine := t.line - prevLine
		deltaStart := t.startChar
		if i > 0 && deltaLine == 0 {
			deltaStart = t.startChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, t.length, t.tokenType, t.modifiers)
		prevLine, prevStart = t.line, t.startChar
	}
	return data
}

// textForFiles reads every file in a compile set once, preferring the
// arena's editor-supplied buffer over on-disk content.
func textForFiles(req *types.RequestContext, files []string) map[string]string {
	out := make(map[string]string, len(files))
	for _, f := range files {
		text, err := helpers.ReadText(req.Server.Workspace(), f)
		if err != nil {
			continue
		}
		out[f] = text
	}
	return out
}

// SemanticTokensFull implements spec.md §4.5 trigger-matrix row 5 for
// semantic tokens: never trigger a build, reuse whatever the last edit
// already produced.
func SemanticTokensFull(req *types.RequestContext, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	file := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Debug("Semantic tokens (full) requested: %s", file)

	result := req.Server.Orchestrator().ForPassiveRequest(file)
	index, ok := result.Symbols.(*frontend.SymbolIndex)
	if !ok {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}

	tokens := collectTokens(index, textForFiles(req, result.Files))
	return &protocol.SemanticTokens{Data: encode(tokens)}, nil
}

// SemanticTokensRange is SemanticTokensFull filtered to the requested
// range, using helpers.RangesIntersect so a token spanning the range
// boundary is still included.
func SemanticTokensRange(req *types.RequestContext, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	file := uriutil.URIToPath(string(params.TextDocument.URI))
	log.Debug("Semantic tokens (range) requested: %s", file)

	result := req.Server.Orchestrator().ForPassiveRequest(file)
	index, ok := result.Symbols.(*frontend.SymbolIndex)
	if !ok {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}

	tokens := collectTokens(index, textForFiles(req, result.Files))

	filtered := tokens[:0]
	for _, t := range tokens {
		tokenRange := protocol.Range{
			Start: protocol.Position{Line: t.line, Character: t.startChar},
			End:   protocol.Position{Line: t.line, Character: t.startChar + t.length},
		}
		if helpers.RangesIntersect(tokenRange, params.Range) {
			filtered = append(filtered, t)
		}
	}

	return &protocol.SemanticTokens{Data: encode(filtered)}, nil
}
