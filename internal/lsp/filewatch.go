// Package lsp computes the file-watcher glob patterns the LSP adapter
// registers with the client (spec.md §4.5 trigger-matrix row 4 and its
// source-file analogue). It is kept separate from the root lsp package so
// the pattern logic is testable without a glsp transport, grounded on the
// teacher's lsp/file_watcher.go pattern-building helpers.
package lsp

import (
	"path/filepath"
	"strings"

	"github.com/DFOP-HD/artic-lsp/internal/arena"
	"github.com/bmatcuk/doublestar/v4"
)

// WatchPatterns computes one client-side file-watcher glob per recognized
// config filename, plus one per declared project pattern translated to an
// absolute path rooted at the project's own root directory. Before any
// project has been loaded (e.g. the very first initialize, before the
// first build has run) it falls back to a root-wide source-extension
// pattern so edits are observed even before a workspace reload populates
// the project table.
//
// Each candidate is validated with doublestar.ValidatePattern as a
// fast-path sanity check: a project pattern containing syntax the client's
// glob matcher (which follows the same double-star convention) cannot
// parse is dropped rather than sent, since a malformed watcher
// registration is worse than a missing one.
func WatchPatterns(root string, projects []*arena.Project, configFilenames []string) []string {
	var patterns []string
	for _, name := range configFilenames {
		patterns = append(patterns, filepath.ToSlash(filepath.Join(root, "**", name)))
	}

	if len(projects) == 0 {
		patterns = append(patterns,
			filepath.ToSlash(filepath.Join(root, "**", "*.art")),
			filepath.ToSlash(filepath.Join(root, "**", "*.impala")),
		)
		return patterns
	}

	seen := make(map[string]bool)
	for _, p := range projects {
		for _, pat := range p.Patterns {
			clean := strings.TrimPrefix(pat, "!")
			joined := filepath.ToSlash(filepath.Join(p.Root, clean))
			if !doublestar.ValidatePattern(joined) {
				continue
			}
			if seen[joined] {
				continue
			}
			seen[joined] = true
			patterns = append(patterns, joined)
		}
	}
	return patterns
}
