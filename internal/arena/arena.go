// Package arena implements the File & Path Arena (spec.md §4.3): the
// process-wide store that owns every File, Project, and ConfigDocument
// record for a session. It is intentionally dumb — interning, lookup, and
// idempotent insertion only. Resolution logic (project discovery, include
// recursion, dependency collection) lives in internal/workspace, which
// holds a *Arena and stores interned handles (paths, names) rather than
// copying the values it works with, mirroring the teacher's Arena-less but
// similarly single-owner internal/documents.Document table.
package arena

import "sync"

// File is one source or configuration file's on-disk identity plus an
// optional editor-supplied buffer (spec.md §3 "File"). A nil Text means
// "not open in the editor"; callers read from disk lazily.
type File struct {
	Path string // canonical absolute path; identity
	Text *string
}

// Project is one named grouping of files (spec.md §3 "Project"). Fields
// mirror config.ProjectDef plus resolver-owned bookkeeping (materialized
// file list, depth).
type Project struct {
	Name         string
	Origin       string // canonical path of the config document that first defined it
	Root         string // base directory for relative globs
	Patterns     []string
	Dependencies []string
	Depth        int // path-separator count of the origin document's directory; duplicate names are not decided by it (the first-interned definition is kept)

	filesLoaded bool
	Files       []string // materialized, lazily populated by the Workspace Resolver
}

// ConfigDocument is one parsed-and-interned configuration file (spec.md §3
// "ConfigDocument"). It is replaced atomically on reload, never mutated in
// place once published.
type ConfigDocument struct {
	Path               string
	Version            string
	ProjectNames       []string // in declared order
	DefaultProjectName string
	Includes           []IncludeEntry
}

// IncludeEntry is one include reference as stored in the arena: just
// enough to drive re-traversal without reaching back into config.IncludeRef.
type IncludeEntry struct {
	Target   string // canonical path; empty for the deprecated global marker
	Optional bool
	Literal  string
}

// Arena owns every File, Project, and ConfigDocument for one workspace
// session. It is not safe for concurrent use from more than one goroutine;
// the LSP adapter's single-threaded message loop (spec.md §5) is the only
// caller.
type Arena struct {
	mu sync.Mutex // guards against accidental reentrancy bugs, not true concurrency

	files    map[string]*File
	projects map[string]*Project
	configs  map[string]*ConfigDocument
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{
		files:    make(map[string]*File),
		projects: make(map[string]*Project),
		configs:  make(map[string]*ConfigDocument),
	}
}

// Reset clears every table, as required before a full reload (spec.md
// §4.4 "Reload").
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files = make(map[string]*File)
	a.projects = make(map[string]*Project)
	a.configs = make(map[string]*ConfigDocument)
}

// InternFile returns the File for path, creating it if absent. Insert is
// idempotent: a second call with the same path returns the same record.
func (a *Arena) InternFile(path string) *File {
	a.mu.Lock()
	defer a.mu.Unlock()
	if f, ok := a.files[path]; ok {
		return f
	}
	f := &File{Path: path}
	a.files[path] = f
	return f
}

// LookupFile returns the File for path without creating it.
func (a *Arena) LookupFile(path string) (*File, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, ok := a.files[path]
	return f, ok
}

// SetFileText records the editor-supplied content for path, interning the
// File if it does not yet exist.
func (a *Arena) SetFileText(path, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, ok := a.files[path]
	if !ok {
		f = &File{Path: path}
		a.files[path] = f
	}
	f.Text = &text
}

// ClearFileText marks path as no longer open in the editor; subsequent
// reads fall back to disk.
func (a *Arena) ClearFileText(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if f, ok := a.files[path]; ok {
		f.Text = nil
	}
}

// AddProject interns a new project record under name. It is the caller's
// responsibility (internal/workspace) to have already checked for a
// duplicate name per spec.md §4.4 step 2; AddProject always overwrites.
func (a *Arena) AddProject(p *Project) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.projects[p.Name] = p
}

// LookupProject returns the project named name, if any.
func (a *Arena) LookupProject(name string) (*Project, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.projects[name]
	return p, ok
}

// Projects returns every interned project. The slice is a fresh copy;
// mutating it does not affect the arena.
func (a *Arena) Projects() []*Project {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Project, 0, len(a.projects))
	for _, p := range a.projects {
		out = append(out, p)
	}
	return out
}

// ConfigPaths returns the canonical path of every tracked ConfigDocument,
// used by workspace.Snapshot to compare two reloads without holding onto
// document values across the reload that would replace them.
func (a *Arena) ConfigPaths() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.configs))
	for p := range a.configs {
		out = append(out, p)
	}
	return out
}

// AddConfig interns a ConfigDocument, replacing any prior record at the
// same path (spec.md §3 "ConfigDocument": "replaced atomically on reload").
func (a *Arena) AddConfig(doc *ConfigDocument) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configs[doc.Path] = doc
}

// LookupConfig returns the ConfigDocument at path, if tracked.
func (a *Arena) LookupConfig(path string) (*ConfigDocument, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.configs[path]
	return d, ok
}

// IsConfigTracked reports whether path is currently tracked, used by the
// per-config-change optimization (spec.md §4.4 "Per-config-change
// optimization") to decide whether an untracked save can be ignored
// outright.
func (a *Arena) IsConfigTracked(path string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.configs[path]
	return ok
}

// SetFiles records a project's materialized file list and marks it
// loaded, so a second materialize call (internal/workspace) is a
// no-op (spec.md §4.4 step 4: "Results are cached on the Project").
func (p *Project) SetFiles(files []string) {
	p.Files = files
	p.filesLoaded = true
}

// FilesLoaded reports whether SetFiles has already been called.
func (p *Project) FilesLoaded() bool {
	return p.filesLoaded
}
