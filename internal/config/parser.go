// Package config implements the Config Parser (spec.md §4.2): it turns the
// bytes of one configuration document into a structured, still-unresolved
// representation (declared projects, a default project, include
// references) plus diagnostics tied to the literal JSON/YAML tokens that
// caused them. It never touches the filesystem beyond resolving a
// project's "folder" against the document's directory, and it never
// recurses into includes — that is the Workspace Resolver's job
// (internal/workspace).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DFOP-HD/artic-lsp/internal/diag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// CurrentVersion and DeprecatedVersion are the two recognized values of
// the "artic-config" key (spec.md §4.2 "Required schema").
const (
	CurrentVersion    = "2.0"
	DeprecatedVersion = "1.0"
)

// Filenames lists the recognized configuration file names in priority
// order (spec.md §6, §4.4 step 1). `.artic-lsp.yaml` is an additive,
// lowest-priority alternative (SPEC_FULL.md §4.2/§6 expansion).
var Filenames = []string{".artic-lsp", "artic.json", ".artic-lsp.yaml"}

// ProjectDef is one project object as written in a configuration document,
// with its dependency names left unresolved (spec.md §3 "Project": "list
// of dependency project names (unresolved strings, to permit
// forward/cyclic references)").
type ProjectDef struct {
	Name           string
	FolderRaw      string // as written; empty if "folder" was omitted
	Folder         string // resolved root directory to glob against
	FolderFellBack bool   // true if FolderRaw was invalid and we fell back
	Dependencies   []string
	Patterns       []string // raw patterns; a leading "!" marks an exclusion
}

// IncludeKind distinguishes the three shapes an include string can take
// (spec.md §9 "Sum types for include references and project-identity").
type IncludeKind int

const (
	// IncludePath is an ordinary, required include.
	IncludePath IncludeKind = iota
	// IncludeOptionalPath is a "path?" include: a missing target is
	// silently ignored.
	IncludeOptionalPath
	// IncludeDeprecatedGlobal is the literal token "<global>": deprecated,
	// produces a warning, and is never expanded.
	IncludeDeprecatedGlobal
)

// IncludeRef is one entry of the document's "include" array.
type IncludeRef struct {
	Kind    IncludeKind
	Target  string // canonical absolute path; empty for IncludeDeprecatedGlobal
	Literal string // exact source text, for diagnostic scanning
}

// Optional reports whether a missing target should be silently skipped.
func (r IncludeRef) Optional() bool {
	return r.Kind == IncludeOptionalPath
}

// ParsedDocument is the Config Parser's output for one document: a
// ConfigDocument's structural fields plus the Project definitions it
// declares, all still carrying unresolved names (spec.md §4.2 "Output").
type ParsedDocument struct {
	Path                 string
	Version              string
	Projects             []ProjectDef
	DefaultProjectName   string      // set if "default-project" was a string reference
	DefaultProjectInline *ProjectDef // set if "default-project" was an inline object
	Includes             []IncludeRef
}

// Parse decodes one configuration document's bytes (JSON with comments, or
// YAML if path ends in .yaml/.yml) and validates its structure, appending
// one diagnostic per problem to sink. A JSON/YAML syntax error is the only
// failure mode that aborts parsing entirely (spec.md §4.2 "JSON parse
// errors are caught and turned into a single error diagnostic").
func Parse(path string, data []byte, home string, sink *diag.Sink) (*ParsedDocument, error) {
	raw, err := decode(path, data)
	if err != nil {
		sink.Errorf(path, "", "failed to parse %s: %v", filepath.Base(path), err)
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	docDir := filepath.Dir(path)
	return validate(path, raw, docDir, home, sink), nil
}

func decode(path string, data []byte) (map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if raw == nil {
			raw = map[string]any{}
		}
		return raw, nil
	}

	clean := jsonc.ToJSON(data)
	var raw map[string]any
	if err := json.Unmarshal(clean, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func validate(path string, raw map[string]any, docDir, home string, sink *diag.Sink) *ParsedDocument {
	doc := &ParsedDocument{Path: path}

	for key, val := range raw {
		switch key {
		case "artic-config":
			doc.Version = validateVersion(path, val, sink)
		case "projects":
			doc.Projects = validateProjectsArray(path, val, docDir, sink)
		case "default-project":
			doc.DefaultProjectName, doc.DefaultProjectInline = validateDefaultProject(path, val, docDir, sink)
		case "include":
			doc.Includes = validateIncludes(path, val, docDir, home, sink)
		default:
			sink.Errorf(path, key, "unknown configuration key %q", key)
		}
	}

	if doc.Version == "" {
		sink.Errorf(path, "", "missing required key %q", "artic-config")
	}

	return doc
}

func validateVersion(path string, val any, sink *diag.Sink) string {
	s, ok := val.(string)
	if !ok {
		sink.Errorf(path, "", "%q must be a string", "artic-config")
		return CurrentVersion
	}
	switch s {
	case CurrentVersion:
		return s
	case DeprecatedVersion:
		sink.Warnf(path, s, "configuration version %q is deprecated, use %q", s, CurrentVersion)
		return s
	default:
		sink.Warnf(path, s, "unrecognized configuration version %q, treating as %q", s, CurrentVersion)
		return CurrentVersion
	}
}

func validateProjectsArray(path string, val any, docDir string, sink *diag.Sink) []ProjectDef {
	arr, ok := val.([]any)
	if !ok {
		sink.Errorf(path, "", "%q must be an array", "projects")
		return nil
	}
	defs := make([]ProjectDef, 0, len(arr))
	for _, item := range arr {
		if def := validateProjectObject(path, item, docDir, sink); def != nil {
			defs = append(defs, *def)
		}
	}
	return defs
}

func validateDefaultProject(path string, val any, docDir string, sink *diag.Sink) (name string, inline *ProjectDef) {
	switch v := val.(type) {
	case string:
		return v, nil
	case map[string]any:
		return "", validateProjectObject(path, v, docDir, sink)
	default:
		sink.Errorf(path, "", "%q must be a string or a project object", "default-project")
		return "", nil
	}
}

func validateProjectObject(path string, val any, docDir string, sink *diag.Sink) *ProjectDef {
	obj, ok := val.(map[string]any)
	if !ok {
		sink.Errorf(path, "", "project entry must be an object")
		return nil
	}

	def := &ProjectDef{}
	nameSeen := false

	for key, v := range obj {
		switch key {
		case "name":
			name, ok := v.(string)
			if !ok || name == "" {
				sink.Errorf(path, "", "project %q must be a non-empty string", "name")
				continue
			}
			def.Name = name
			nameSeen = true
		case "folder":
			folderRaw, ok := v.(string)
			if !ok {
				sink.Errorf(path, "", "project %q field must be a string", "folder")
				continue
			}
			def.FolderRaw = folderRaw
			def.Folder, def.FolderFellBack = resolveFolder(path, folderRaw, docDir, sink)
		case "dependencies":
			def.Dependencies = stringArray(path, "dependencies", v, sink)
		case "files":
			def.Patterns = stringArray(path, "files", v, sink)
		default:
			sink.Errorf(path, key, "unknown project key %q", key)
		}
	}

	if !nameSeen {
		sink.Errorf(path, "", "project is missing required key %q", "name")
		return nil
	}
	if def.Folder == "" {
		def.Folder = docDir
	}
	return def
}

// resolveFolder resolves a project's "folder" field (spec.md §4.2 "Project
// object"): relative to the document's directory, absolute, or
// ~-prefixed; falls back to docDir with a diagnostic if the result is not
// an existing directory.
func resolveFolder(path, folderRaw, docDir string, sink *diag.Sink) (resolved string, fellBack bool) {
	candidate := expandPath(folderRaw, docDir, "")
	if st, err := os.Stat(candidate); err == nil && st.IsDir() {
		return candidate, false
	}
	sink.Warnf(path, folderRaw, "project folder %q does not exist, falling back to the document's directory", folderRaw)
	return docDir, true
}

func stringArray(path, key string, val any, sink *diag.Sink) []string {
	arr, ok := val.([]any)
	if !ok {
		sink.Errorf(path, "", "project %q must be an array of strings", key)
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			sink.Errorf(path, "", "project %q entries must be strings", key)
			continue
		}
		out = append(out, s)
	}
	return out
}

func validateIncludes(path string, val any, docDir, home string, sink *diag.Sink) []IncludeRef {
	arr, ok := val.([]any)
	if !ok {
		sink.Errorf(path, "", "%q must be an array", "include")
		return nil
	}
	refs := make([]IncludeRef, 0, len(arr))
	for _, item := range arr {
		lit, ok := item.(string)
		if !ok {
			sink.Errorf(path, "", "%q entries must be strings", "include")
			continue
		}

		if lit == "<global>" {
			sink.Warnf(path, lit, "the %q include is deprecated and is never expanded", "<global>")
			refs = append(refs, IncludeRef{Kind: IncludeDeprecatedGlobal, Literal: lit})
			continue
		}

		optional := strings.HasSuffix(lit, "?")
		target := strings.TrimSuffix(lit, "?")
		kind := IncludePath
		if optional {
			kind = IncludeOptionalPath
		}
		refs = append(refs, IncludeRef{
			Kind:    kind,
			Target:  expandPath(target, docDir, home),
			Literal: lit,
		})
	}
	return refs
}

// expandPath resolves a relative/absolute/~-prefixed path the way spec.md
// §4.2 describes for both "folder" and include targets, then weakly
// canonicalizes it.
func expandPath(p, docDir, home string) string {
	switch {
	case strings.HasPrefix(p, "~/"):
		base := "/"
		if home != "" {
			base = home
		}
		p = filepath.Join(base, strings.TrimPrefix(p, "~/"))
	case filepath.IsAbs(p):
		// used as given
	default:
		p = filepath.Join(docDir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return filepath.Clean(abs)
}
