// Package workspace implements the Workspace Resolver (spec.md §4.4): it
// owns an *arena.Arena, discovers which project a source file belongs to
// by walking directories upward, loads configuration documents
// recursively through their includes, materializes project file lists via
// internal/glob, and assembles ordered compilation units across
// transitive project dependencies. The cycle-safety pattern (a
// current-recursion-stack carried through the traversal, pushed on entry
// and popped on return, with a back-edge to a project still on the stack
// turned into a diagnostic rather than a panic — a project reached twice
// by two different paths that is not on the stack at either arrival is a
// diamond, not a cycle) is grounded on the teacher's
// internal/resolver.DependencyGraph cycle detection.
package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DFOP-HD/artic-lsp/internal/arena"
	"github.com/DFOP-HD/artic-lsp/internal/collections"
	"github.com/DFOP-HD/artic-lsp/internal/config"
	"github.com/DFOP-HD/artic-lsp/internal/diag"
	"github.com/DFOP-HD/artic-lsp/internal/glob"
)

// Workspace resolves compile sets for source files against a graph of
// configuration documents. It is not safe for concurrent use; the LSP
// adapter's single-threaded message loop (spec.md §5) is its only caller.
type Workspace struct {
	arena *arena.Arena
	home  string

	// projectOf caches project-discovery results per canonical file path
	// (spec.md §4.4 invariant (d)). A present key with an empty value
	// means "no project" to distinguish a cached miss from an uncached one.
	projectOf map[string]string
}

// New returns a Workspace backed by a fresh arena. home is $HOME, used for
// "~/"-prefixed folders, patterns, and includes (empty means unset).
func New(home string) *Workspace {
	return &Workspace{
		arena:     arena.New(),
		home:      home,
		projectOf: make(map[string]string),
	}
}

// Arena exposes the underlying store, e.g. so the LSP adapter can record
// editor-supplied buffers via SetFileText.
func (w *Workspace) Arena() *arena.Arena {
	return w.arena
}

// Snapshot is an immutable, point-in-time view of the project and config
// tables' names/paths, not values (spec.md §3 expansion in SPEC_FULL.md:
// "a workspace.Snapshot ... used only so integration tests can assert
// idempotence of reload (§8 property 1)"). It holds no pointers into the
// arena, so it survives a later Reload unaffected.
type Snapshot struct {
	ProjectNames []string
	ConfigPaths  []string
}

// Snapshot captures the current project and config tables' identity sets,
// sorted for comparison regardless of map/traversal order.
func (w *Workspace) Snapshot() Snapshot {
	projects := w.arena.Projects()
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	sort.Strings(names)

	configs := w.arena.ConfigPaths()
	sort.Strings(configs)

	return Snapshot{ProjectNames: names, ConfigPaths: configs}
}

// Reload clears the arena and every resolver-owned cache, per spec.md
// §4.4 "Reload clears the arena ... and invalidates the cached
// compilation result" (the compilation-result invalidation itself is the
// orchestrator's responsibility; this only resets what Workspace owns).
func (w *Workspace) Reload() {
	w.arena.Reset()
	w.projectOf = make(map[string]string)
}

// OnConfigChanged implements the per-config-change optimization (spec.md
// §4.4): it reports whether path is currently tracked, so the caller can
// skip a full reload for a save that cannot affect any open file's
// resolution.
func (w *Workspace) OnConfigChanged(path string) (tracked bool) {
	return w.arena.IsConfigTracked(canonicalPath(path))
}

// CompileSet resolves the ordered, deduplicated list of files that must be
// compiled together for file (spec.md §4.4 step 5). The result always
// contains file itself, appended as a synthetic member if its project (or
// the lack of one) does not already include it.
func (w *Workspace) CompileSet(file string, sink *diag.Sink) []string {
	canon := canonicalPath(file)
	result := collections.NewOrderedSet[string]()

	if proj, ok := w.FindProject(canon, sink); ok {
		w.collectFiles(proj, sink, map[string]bool{}, result)
	}

	if !result.Has(canon) {
		result.Add(canon)
		sink.Infof(canon, "", "file is not a member of its resolved project; augmented as a synthetic compile-unit member")
	}

	return result.Members()
}

// FindProject implements spec.md §4.4 step 1: canonicalize, consult the
// per-file cache, then walk parent directories upward from file looking
// for a recognized configuration filename; the first project (in declared
// order) whose uses-file test passes wins, falling back to the document's
// default project. Within one directory, only the highest-priority
// recognized filename that actually exists is consulted — per
// config.Filenames's documented priority order and SPEC_FULL.md §4.2's
// "YAML is consulted only if neither JSON name exists in a directory"
// rule — so a directory whose config doesn't claim the file moves on to
// the parent directory rather than trying a lower-priority filename in
// the same directory (spec.md §4.4 step 1: "If no project matches in this
// document, continue to the parent directory").
func (w *Workspace) FindProject(file string, sink *diag.Sink) (*arena.Project, bool) {
	canon := canonicalPath(file)

	if cached, ok := w.projectOf[canon]; ok {
		if cached == "" {
			return nil, false
		}
		return w.arena.LookupProject(cached)
	}

	dir := filepath.Dir(canon)
	for {
		for _, name := range config.Filenames {
			candidate := filepath.Join(dir, name)
			if !regularFileExists(candidate) {
				continue
			}
			doc, ok := w.loadConfigTree(candidate, false, sink)
			if !ok {
				// The highest-priority existing filename in this
				// directory failed to load; do not fall through to a
				// lower-priority filename in the same directory.
				break
			}

			for _, pname := range doc.ProjectNames {
				p, ok := w.arena.LookupProject(pname)
				if !ok {
					continue
				}
				if w.usesFile(p, canon, map[string]bool{}, sink) {
					w.projectOf[canon] = p.Name
					return p, true
				}
			}
			if doc.DefaultProjectName != "" {
				if p, ok := w.arena.LookupProject(doc.DefaultProjectName); ok {
					w.projectOf[canon] = p.Name
					return p, true
				}
			}
			// This directory's one recognized config has been consulted
			// and claimed neither this file nor a default project; move
			// up to the parent directory instead of trying the next
			// recognized filename here.
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	w.projectOf[canon] = ""
	return nil, false
}

// loadConfigTree implements spec.md §4.4 step 2. If path is already
// tracked by canonical path it returns the tracked handle immediately —
// this, combined with interning the document before recursing into its
// includes below, is what breaks include cycles without a separate
// visited-path set.
func (w *Workspace) loadConfigTree(path string, optional bool, sink *diag.Sink) (*arena.ConfigDocument, bool) {
	canon := canonicalPath(path)
	if doc, ok := w.arena.LookupConfig(canon); ok {
		return doc, true
	}

	data, err := os.ReadFile(canon)
	if err != nil {
		if !optional {
			sink.Errorf(canon, "", "configuration %q could not be read: %v", canon, err)
		}
		return nil, false
	}

	parsed, err := config.Parse(canon, data, w.home, sink)
	if err != nil {
		return nil, false
	}

	doc := &arena.ConfigDocument{Path: canon, Version: parsed.Version}
	depth := strings.Count(filepath.Dir(canon), string(filepath.Separator))

	register := func(def config.ProjectDef) {
		if existing, ok := w.arena.LookupProject(def.Name); ok {
			if existing.Origin != canon {
				sink.Warnf(canon, def.Name, "project %q is already defined in %q; keeping the earlier definition", def.Name, existing.Origin)
			}
			return
		}
		w.arena.AddProject(&arena.Project{
			Name:         def.Name,
			Origin:       canon,
			Root:         def.Folder,
			Patterns:     def.Patterns,
			Dependencies: def.Dependencies,
			Depth:        depth,
		})
		doc.ProjectNames = append(doc.ProjectNames, def.Name)
	}

	for _, def := range parsed.Projects {
		register(def)
	}

	switch {
	case parsed.DefaultProjectInline != nil:
		register(*parsed.DefaultProjectInline)
		doc.DefaultProjectName = parsed.DefaultProjectInline.Name
	default:
		doc.DefaultProjectName = parsed.DefaultProjectName
	}

	for _, inc := range parsed.Includes {
		if inc.Kind == config.IncludeDeprecatedGlobal {
			doc.Includes = append(doc.Includes, arena.IncludeEntry{Literal: inc.Literal})
			continue
		}
		doc.Includes = append(doc.Includes, arena.IncludeEntry{
			Target:   inc.Target,
			Optional: inc.Optional(),
			Literal:  inc.Literal,
		})
	}

	// Intern before recursing: a later include cycling back to canon hits
	// the tracked-lookup at the top of this function instead of re-parsing.
	w.arena.AddConfig(doc)

	for _, inc := range parsed.Includes {
		if inc.Kind == config.IncludeDeprecatedGlobal {
			continue
		}
		w.loadConfigTree(inc.Target, inc.Optional(), sink)
	}

	return doc, true
}

// usesFile implements spec.md §4.4 step 3: P uses F iff F is in P's
// materialized file list, or recursively in any dependency's. stack holds
// only the projects on the current recursion path (pushed on entry,
// popped on return), so a back edge to a project still on the stack is a
// genuine cycle per spec.md §4.4 "Cycle handling for dependencies", while
// a diamond (two siblings sharing a dependency, e.g. A depends on B and
// C, both of which depend on D) is not: D is popped off the stack before
// the second arrival, so it is revisited rather than misdiagnosed as a
// cycle.
func (w *Workspace) usesFile(p *arena.Project, file string, stack map[string]bool, sink *diag.Sink) bool {
	stack[p.Name] = true
	defer delete(stack, p.Name)

	w.materialize(p, sink)

	for _, f := range p.Files {
		if f == file {
			return true
		}
	}

	for _, dep := range p.Dependencies {
		depProj, ok := w.arena.LookupProject(dep)
		if !ok {
			sink.Errorf(p.Origin, dep, "project %q depends on unresolved project %q", p.Name, dep)
			continue
		}
		if stack[depProj.Name] {
			sink.Errorf(p.Origin, dep, "cyclic project dependency involving %q", dep)
			continue
		}
		if w.usesFile(depProj, file, stack, sink) {
			return true
		}
	}
	return false
}

// collectFiles implements spec.md §4.4 step 5's transitive collection:
// every materialized file of p and of every dependency, deduplicated and
// in first-seen order, with the same on-stack cycle handling as usesFile
// (see usesFile's doc comment for why a diamond dependency must not be
// flagged as a cycle).
func (w *Workspace) collectFiles(p *arena.Project, sink *diag.Sink, stack map[string]bool, out *collections.OrderedSet[string]) {
	stack[p.Name] = true
	defer delete(stack, p.Name)

	w.materialize(p, sink)
	out.Add(p.Files...)

	for _, dep := range p.Dependencies {
		depProj, ok := w.arena.LookupProject(dep)
		if !ok {
			sink.Errorf(p.Origin, dep, "project %q depends on unresolved project %q", p.Name, dep)
			continue
		}
		if stack[depProj.Name] {
			sink.Errorf(p.Origin, dep, "cyclic project dependency involving %q", dep)
			continue
		}
		w.collectFiles(depProj, sink, stack, out)
	}
}

// materialize implements spec.md §4.4 step 4. Exclusion patterns
// (prefixed "!") are expanded the same as inclusion patterns and then
// subtracted, applying to both glob-produced and (per the resolved Open
// Question, see DESIGN.md) explicitly-listed matches alike.
func (w *Workspace) materialize(p *arena.Project, sink *diag.Sink) {
	if p.FilesLoaded() {
		return
	}

	included := collections.NewOrderedSet[string]()
	var exclusionPatterns []string
	for _, pattern := range p.Patterns {
		if strings.HasPrefix(pattern, "!") {
			exclusionPatterns = append(exclusionPatterns, strings.TrimPrefix(pattern, "!"))
			continue
		}
		included.Add(glob.Expand(p.Root, pattern, w.home, sink)...)
	}

	if len(exclusionPatterns) == 0 {
		p.SetFiles(included.Members())
		return
	}

	excluded := collections.NewOrderedSet[string]()
	for _, pattern := range exclusionPatterns {
		matches := glob.Expand(p.Root, pattern, w.home, sink)
		if len(matches) == 0 {
			sink.Warnf(p.Origin, pattern, "exclusion pattern %q matched no files", pattern)
		}
		excluded.Add(matches...)
	}

	final := make([]string, 0, included.Len())
	for _, f := range included.Members() {
		if !excluded.Has(f) {
			final = append(final, f)
		}
	}
	p.SetFiles(final)
}

func regularFileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return filepath.Clean(abs)
}
