// Package frontend defines the external compile-frontend collaborator
// boundary (spec.md §1, §4.5): the lexer, parser, name binder, and type
// checker for .art/.impala source live behind the Frontend interface. The
// orchestrator depends only on this contract, never on a concrete
// compiler, so a production frontend can replace Reference without
// touching internal/orchestrator or internal/workspace.
package frontend

import "github.com/DFOP-HD/artic-lsp/internal/diag"

// CompileRequest is everything the orchestrator hands the frontend for
// one build (spec.md §4.5 "Building").
type CompileRequest struct {
	// Files is the ordered compile set produced by the Workspace Resolver.
	Files []string
	// Active is the file that triggered this build.
	Active string
	// Buffers holds editor-supplied content that overrides on-disk
	// contents, keyed by canonical path (spec.md §5 "Shared resources").
	Buffers map[string]string
	// SafeMode instructs the frontend to skip files that fail to parse
	// rather than aborting the whole build (spec.md §4.5 "Safe mode").
	SafeMode bool
}

// CompileOutput is the frontend's result for one CompileRequest, matching
// the shape of CompilationResult (spec.md §3).
type CompileOutput struct {
	// Diagnostics is keyed by canonical file path.
	Diagnostics map[string][]diag.Diagnostic
	// Symbols is opaque to this spec; a production frontend's symbol
	// table/AST index would live here.
	Symbols any
	// ParsedAll reports whether every file in the request parsed without
	// a syntax error. Safe mode is cleared on the first build where this
	// is true (spec.md §4.5 "Safe mode").
	ParsedAll bool
}

// Frontend is the external collaborator boundary. Compile must not
// mutate Files, Buffers, or any other field of req.
type Frontend interface {
	Compile(req CompileRequest) CompileOutput
}
