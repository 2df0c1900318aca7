// Package orchestrator implements the Compile Orchestrator (spec.md
// §4.5): it owns at most one cached CompilationResult, rebuilds it
// according to the trigger matrix, invokes the external compile
// frontend, and tracks safe-mode state across a crash-restart session.
// Diagnostic-to-LSP translation (coordinate conversion, literal-context
// expansion) is deliberately left to the LSP adapter; this package only
// produces the per-file diagnostic groupings the adapter publishes.
package orchestrator

import (
	"path/filepath"

	"github.com/DFOP-HD/artic-lsp/internal/diag"
	"github.com/DFOP-HD/artic-lsp/internal/frontend"
	"github.com/DFOP-HD/artic-lsp/internal/workspace"
)

// CompilationResult is the orchestrator's single cached build (spec.md §3
// "CompilationResult"). Generation increases on every rebuild and on every
// reload, so a long-lived handle (e.g. held across an await in a future
// concurrent redesign) can detect staleness — see SPEC_FULL.md §3.
type CompilationResult struct {
	Files             []string
	Active            string
	Symbols           any
	Diagnostics       map[string][]diag.Diagnostic // compile diagnostics, keyed by canonical file path
	ConfigDiagnostics []diag.Diagnostic             // diagnostics produced while resolving Files
	ParsedAll         bool
	Generation        int
}

// Contains reports whether path is one of this result's locator members
// (spec.md §4.5 trigger-matrix condition "current result ... contains the
// path").
func (r *CompilationResult) Contains(path string) bool {
	if r == nil {
		return false
	}
	for _, f := range r.Files {
		if f == path {
			return true
		}
	}
	return false
}

// PerFile returns, for every file in the compile set, its compile
// diagnostics (nil, i.e. empty, if none) — satisfying spec.md §8
// "Diagnostic coverage": exactly one publication per file in the set.
func (r *CompilationResult) PerFile() map[string][]diag.Diagnostic {
	out := make(map[string][]diag.Diagnostic, len(r.Files))
	for _, f := range r.Files {
		out[f] = r.Diagnostics[f]
	}
	return out
}

// Orchestrator drives one workspace's compile/rebuild/safe-mode lifecycle.
// Like the Workspace it wraps, it is not safe for concurrent use; the LSP
// adapter's single-threaded message loop is its only caller (spec.md §5).
type Orchestrator struct {
	ws       *workspace.Workspace
	frontend frontend.Frontend

	current    *CompilationResult
	safeMode   bool
	generation int
}

// New wires an Orchestrator to a Workspace Resolver and a compile
// frontend. restartFromCrash mirrors the client-supplied initialization
// option (spec.md §6): when true, the very first build runs in safe mode.
func New(ws *workspace.Workspace, fe frontend.Frontend, restartFromCrash bool) *Orchestrator {
	return &Orchestrator{
		ws:       ws,
		frontend: fe,
		safeMode: restartFromCrash,
	}
}

// Current returns the presently cached result, or nil if none exists yet.
func (o *Orchestrator) Current() *CompilationResult {
	return o.current
}

// SafeMode reports whether the next build will run in safe mode.
func (o *Orchestrator) SafeMode() bool {
	return o.safeMode
}

// SetSafeMode forces safe mode on or off, used by the LSP adapter once
// initialize's restartFromCrash option is known (the Orchestrator is
// constructed before that request arrives).
func (o *Orchestrator) SetSafeMode(v bool) {
	o.safeMode = v
}

// OnOpen implements spec.md §4.5 trigger-matrix row 1: store the buffer,
// then rebuild only if no result exists yet or the existing one does not
// already cover this file.
func (o *Orchestrator) OnOpen(file, text string) *CompilationResult {
	canon := canonicalPath(file)
	o.ws.Arena().SetFileText(canon, text)
	if o.current.Contains(canon) {
		return o.current
	}
	return o.Build(canon)
}

// OnChange implements trigger-matrix row 2: store the new full-sync text,
// then unconditionally rebuild for this file.
func (o *Orchestrator) OnChange(file, text string) *CompilationResult {
	canon := canonicalPath(file)
	o.ws.Arena().SetFileText(canon, text)
	return o.Build(canon)
}

// OnSave implements trigger-matrix row 3: a no-op, since didChange already
// reflects the saved content. It returns the current result unchanged.
func (o *Orchestrator) OnSave(file string) *CompilationResult {
	return o.current
}

// OnClose drops the editor-supplied buffer for file; subsequent reads of
// it fall back to disk. It does not itself invalidate the current result.
func (o *Orchestrator) OnClose(file string) {
	o.ws.Arena().ClearFileText(canonicalPath(file))
}

// OnConfigChanged implements trigger-matrix row 4 together with the
// per-config-change optimization (spec.md §4.4): an untracked config path
// cannot affect any open file's resolution and is ignored outright;
// otherwise the workspace is fully reloaded and the current result is
// invalidated without an eager rebuild.
func (o *Orchestrator) OnConfigChanged(path string) {
	canon := canonicalPath(path)
	if !o.ws.OnConfigChanged(canon) {
		return
	}
	o.Reload()
}

// Reload clears the workspace and invalidates the current result. It is
// also the entry point for the three reload triggers named in spec.md
// §4.4: initialization, a watched-config change that OnConfigChanged
// determined needs one, and an explicit client command.
func (o *Orchestrator) Reload() {
	o.ws.Reload()
	o.current = nil
	o.generation++
}

// EnsureForSymbolLookup implements trigger-matrix row 5 for the handlers
// that may trigger a compile: definition, references, rename, completion,
// and the debug-AST request. It reuses the current result if it already
// covers file, else builds for it.
func (o *Orchestrator) EnsureForSymbolLookup(file string) *CompilationResult {
	canon := canonicalPath(file)
	if o.current.Contains(canon) {
		return o.current
	}
	return o.Build(canon)
}

// ForPassiveRequest implements trigger-matrix row 5 for semantic tokens
// and inlay hints: these arrive immediately after an edit and must never
// invalidate the result that edit just produced (spec.md §5 "Ordering
// guarantees"), so an uncovered file yields an empty result rather than a
// rebuild.
func (o *Orchestrator) ForPassiveRequest(file string) *CompilationResult {
	canon := canonicalPath(file)
	if o.current.Contains(canon) {
		return o.current
	}
	return &CompilationResult{Active: canon}
}

// Build implements spec.md §4.5 "Building" steps 1-7: canonicalize,
// resolve the compile set, invoke the frontend (honoring safe mode),
// clear safe mode on the first fully-parsing build, and cache the result.
func (o *Orchestrator) Build(file string) *CompilationResult {
	canon := canonicalPath(file)

	sink := diag.NewSink()
	files := o.ws.CompileSet(canon, sink)

	buffers := make(map[string]string)
	for _, f := range files {
		if rec, ok := o.ws.Arena().LookupFile(f); ok && rec.Text != nil {
			buffers[f] = *rec.Text
		}
	}

	out := o.frontend.Compile(frontend.CompileRequest{
		Files:    files,
		Active:   canon,
		Buffers:  buffers,
		SafeMode: o.safeMode,
	})

	if o.safeMode && out.ParsedAll {
		o.safeMode = false
	}

	o.generation++
	o.current = &CompilationResult{
		Files:             files,
		Active:            canon,
		Symbols:           out.Symbols,
		Diagnostics:       out.Diagnostics,
		ConfigDiagnostics: sink.All(),
		ParsedAll:         out.ParsedAll,
		Generation:        o.generation,
	}
	return o.current
}

func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return filepath.Clean(abs)
}
