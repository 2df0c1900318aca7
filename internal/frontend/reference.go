package frontend

import (
	"os"
	"regexp"

	"github.com/DFOP-HD/artic-lsp/internal/diag"
)

var (
	declRegexp = regexp.MustCompile(`(?m)^\s*(static\s+)?(let|var)\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(\(([^)]*)\)\s*(->\s*(!|[A-Za-z_][A-Za-z0-9_]*))?\s*\{)?`)
	refRegexp  = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)`)
)

var delimiterPairs = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
}

// Symbol locates one occurrence of a name: a declaration site or a
// reference site. Line and Col are 1-based, matching spec.md §6's internal
// coordinate convention; the LSP adapter converts to 0-based UTF-16 before
// these ever reach the wire.
//
// The Function/NoReturn/Static/Readonly fields are only meaningful on a
// Declarations entry; a Uses entry carries positional data only and is
// resolved back to its declaration (Symbol.UseAt -> Declarations[name])
// when a reference site needs to know what it resolves to, per spec.md §6
// "Semantic-token encoding".
type Symbol struct {
	Name string
	File string
	Line int
	Col  int

	// Function reports whether the declaration's value is a function
	// literal ("name = (params) [-> Type] { ... }"), as opposed to a
	// plain value binding.
	Function bool
	// NoReturn reports whether a function declaration's arrow clause
	// names the "!" no-return marker (spec.md §6: "a reference whose
	// codomain is the 'no-return' marker is encoded as `keyword`").
	NoReturn bool
	// Static reports whether the declaration was written "static let"/
	// "static var".
	Static bool
	// Readonly reports whether the declaration used "let" (true) rather
	// than "var" (false): an immutable binding.
	Readonly bool
}

// SymbolIndex is the reference frontend's CompileOutput.Symbols value. It is
// opaque to the orchestrator (spec.md §4.5 treats Symbols as `any`); the LSP
// adapter type-asserts it to serve definition, references, rename,
// completion, semantic tokens, and inlay hints.
type SymbolIndex struct {
	Declarations map[string]Symbol
	Uses         []Symbol
}

// UseAt returns the @-reference occupying (line, col) in file, if any.
func (idx *SymbolIndex) UseAt(file string, line, col int) (Symbol, bool) {
	for _, u := range idx.Uses {
		if u.File == file && u.Line == line && u.Col <= col && col < u.Col+len(u.Name)+1 {
			return u, true
		}
	}
	return Symbol{}, false
}

// Resolved returns the declaration a use's name resolves to, if any. A use
// whose name has no declaration (an unresolved-name diagnostic was already
// recorded for it) reports ok=false.
func (idx *SymbolIndex) Resolved(use Symbol) (Symbol, bool) {
	decl, ok := idx.Declarations[use.Name]
	return decl, ok
}

// Reference is a deliberately small stand-in for a real .art/.impala
// compiler: it checks delimiter balance and resolves @name references
// against every "let name = ..." declaration visible anywhere in the
// compile set. It exists to exercise internal/orchestrator and the LSP
// adapter end to end, not to analyze the language for real.
type Reference struct{}

// NewReference returns a ready-to-use reference frontend. It is stateless;
// every field of CompileRequest is read fresh on each call.
func NewReference() *Reference {
	return &Reference{}
}

// Compile implements Frontend.
func (r *Reference) Compile(req CompileRequest) CompileOutput {
	out := CompileOutput{
		Diagnostics: make(map[string][]diag.Diagnostic),
		ParsedAll:   true,
	}

	contents := make(map[string]string, len(req.Files))
	index := &SymbolIndex{Declarations: make(map[string]Symbol)}

	for _, path := range req.Files {
		text, err := r.read(path, req.Buffers)
		if err != nil {
			out.Diagnostics[path] = append(out.Diagnostics[path], diag.Diagnostic{
				Severity: diag.SeverityError,
				File:     path,
				Message:  "could not read file: " + err.Error(),
			})
			out.ParsedAll = false
			continue
		}
		contents[path] = text

		for _, m := range declRegexp.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[6]:m[7]]
			line, col := lineCol(text, m[6])
			if _, exists := index.Declarations[name]; exists {
				continue
			}
			sym := Symbol{Name: name, File: path, Line: line, Col: col, Readonly: true}
			if m[2] >= 0 {
				sym.Static = true
			}
			if m[4] >= 0 && text[m[4]:m[5]] == "var" {
				sym.Readonly = false
			}
			if m[8] >= 0 {
				sym.Function = true
				if m[14] >= 0 && text[m[14]:m[15]] == "!" {
					sym.NoReturn = true
				}
			}
			index.Declarations[name] = sym
		}
	}

	for _, path := range req.Files {
		text, ok := contents[path]
		if !ok {
			continue
		}

		if unbalanced, literal := findUnbalancedDelimiter(text); unbalanced {
			out.Diagnostics[path] = append(out.Diagnostics[path], diag.Diagnostic{
				Severity: diag.SeverityError,
				File:     path,
				Literal:  literal,
				Message:  "unbalanced delimiter",
			})
			out.ParsedAll = false
			if req.SafeMode {
				continue
			}
		}

		for _, m := range refRegexp.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[2]:m[3]]
			line, col := lineCol(text, m[0])
			index.Uses = append(index.Uses, Symbol{Name: name, File: path, Line: line, Col: col})

			if _, declared := index.Declarations[name]; !declared {
				out.Diagnostics[path] = append(out.Diagnostics[path], diag.Diagnostic{
					Severity: diag.SeverityError,
					File:     path,
					Literal:  "@" + name,
					Message:  "unresolved name " + name,
				})
			}
		}
	}

	out.Symbols = index
	return out
}

func (r *Reference) read(path string, buffers map[string]string) (string, error) {
	if text, ok := buffers[path]; ok {
		return text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// findUnbalancedDelimiter does a single linear scan tracking a stack of
// open ( [ { and reports the first mismatch or leftover opener.
func findUnbalancedDelimiter(text string) (bool, string) {
	var stack []rune
	for _, r := range text {
		switch r {
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 {
				return true, string(r)
			}
			top := stack[len(stack)-1]
			if delimiterPairs[top] != r {
				return true, string(r)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return true, string(stack[len(stack)-1])
	}
	return false, ""
}

// lineCol converts a byte offset into text to a 1-based (line, col) pair.
// col counts runes within the line, matching the internal coordinate
// convention documented on Symbol.
func lineCol(text string, byteOffset int) (line, col int) {
	line, col = 1, 1
	for _, r := range text[:byteOffset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
