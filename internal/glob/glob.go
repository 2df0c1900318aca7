// Package glob implements the Glob Expander (spec.md §4.1): a pure
// function from (root directory, pattern, diagnostic sink) to an ordered,
// deduplicated list of absolute regular-file paths. It owns no state so it
// can be exercised directly against a synthetic filesystem in tests,
// mirroring how the teacher's internal/parser packages take raw bytes and
// a diagnostic sink rather than reaching into global state.
package glob

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/DFOP-HD/artic-lsp/internal/collections"
	"github.com/DFOP-HD/artic-lsp/internal/diag"
)

// Bounds on exploration, per spec.md §4.1 "Bounds". Exported so tests can
// shrink them to exercise the cap without creating tens of thousands of
// directories.
var (
	MaxDirsPerDoubleStar  = 20000
	MaxEntriesPerWildcard = 1000
)

// Expand resolves pattern against root into an ordered, deduplicated list
// of canonical absolute file paths. home is the value of $HOME, used for
// the "~/" prefix (empty means HOME is unset).
func Expand(root, pattern, home string, sink *diag.Sink) []string {
	base, segments, ok := anchor(root, pattern, home, sink)
	if !ok {
		return nil
	}

	if st, err := os.Stat(base); err != nil || !st.IsDir() {
		sink.Errorf("", pattern, "glob root %q does not exist", base)
		return nil
	}

	result := collections.NewOrderedSet[string]()
	dirsVisited := 0
	walk(base, segments, 0, &dirsVisited, pattern, sink, result)

	return result.Members()
}

// anchor applies spec.md §4.1 "Prefix handling" and splits the remainder
// on "/". Every pattern can be anchored, so ok is always true; "~/" with
// no configured home falls back to "/" with a warning rather than
// failing.
func anchor(root, pattern, home string, sink *diag.Sink) (base string, segments []string, ok bool) {
	switch {
	case strings.HasPrefix(pattern, "/"):
		base = "/"
		pattern = strings.TrimPrefix(pattern, "/")
	case strings.HasPrefix(pattern, "~/"):
		if home == "" {
			sink.Warnf("", pattern, "HOME is unset; %q resolved from / instead of the user home directory", pattern)
			base = "/"
		} else {
			base = home
		}
		pattern = strings.TrimPrefix(pattern, "~/")
	default:
		base = root
	}

	segments = splitNonEmpty(pattern)
	return base, segments, true
}

func splitNonEmpty(pattern string) []string {
	parts := strings.Split(pattern, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// walk implements spec.md §4.1 "Algorithm": a depth-first traversal over
// the pattern's segments against the real filesystem.
func walk(base string, segments []string, idx int, dirsVisited *int, origPattern string, sink *diag.Sink, result *collections.OrderedSet[string]) {
	if idx >= len(segments) {
		return
	}
	seg := segments[idx]
	last := idx == len(segments)-1

	switch {
	case seg == "**":
		if *dirsVisited >= MaxDirsPerDoubleStar {
			sink.Warnf("", seg, "glob expansion of %q stopped: exceeded %d directories under **", origPattern, MaxDirsPerDoubleStar)
			return
		}
		*dirsVisited++

		// Zero levels: advance past ** without descending.
		walk(base, segments, idx+1, dirsVisited, origPattern, sink, result)

		// One or more levels: descend into every subdirectory at the same index.
		entries, err := os.ReadDir(base)
		if err != nil {
			return
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if *dirsVisited >= MaxDirsPerDoubleStar {
				sink.Warnf("", seg, "glob expansion of %q stopped: exceeded %d directories under **", origPattern, MaxDirsPerDoubleStar)
				return
			}
			*dirsVisited++
			walk(filepath.Join(base, e.Name()), segments, idx, dirsVisited, origPattern, sink, result)
		}

	case !hasWildcard(seg):
		next := filepath.Join(base, seg)
		if last {
			if isRegularFile(next) {
				result.Add(canonical(next))
			}
			return
		}
		if st, err := os.Stat(next); err == nil && st.IsDir() {
			walk(next, segments, idx+1, dirsVisited, origPattern, sink, result)
		}

	default:
		entries, err := os.ReadDir(base)
		if err != nil {
			if !os.IsNotExist(err) {
				sink.Warnf("", origPattern, "could not read directory while expanding %q: %v", origPattern, err)
			}
			return
		}
		scanned := 0
		for _, e := range entries {
			if scanned >= MaxEntriesPerWildcard {
				sink.Warnf("", seg, "glob expansion of %q stopped: exceeded %d entries in one directory", origPattern, MaxEntriesPerWildcard)
				return
			}
			scanned++

			matched, err := path.Match(seg, e.Name())
			if err != nil || !matched {
				continue
			}
			next := filepath.Join(base, e.Name())
			if last {
				if isRegularFile(next) {
					result.Add(canonical(next))
				}
			} else if e.IsDir() {
				walk(next, segments, idx+1, dirsVisited, origPattern, sink, result)
			}
		}
	}
}

func hasWildcard(seg string) bool {
	return strings.ContainsAny(seg, "*?[")
}

func isRegularFile(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.Mode().IsRegular()
}

// canonical performs weak canonicalization per spec.md §4.1: an absolute,
// cleaned path that does not require every intermediate symlink to exist.
func canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return filepath.Clean(abs)
}
