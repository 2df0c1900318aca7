// Package diag defines the diagnostic value the configuration and glob
// layers accumulate into, decoupled from any wire format. The LSP adapter
// is the only component that turns a Diagnostic into an LSP-shaped
// notification (internal/orchestrator does the file-diagnostic routing,
// lsp/helpers does the literal-context expansion).
package diag

import "fmt"

// Severity orders diagnostics the way spec.md §7 does: Fatal is handled
// outside this package (it aborts the process), so only these four appear
// on a Diagnostic value.
type Severity int

const (
	// SeverityError marks a configuration error: bad JSON, unknown key,
	// missing required key, missing non-optional include, unresolved
	// dependency, cyclic dependency, duplicate project name, nonexistent
	// project folder.
	SeverityError Severity = iota
	// SeverityWarning marks a resource-warning or a tolerated anomaly
	// (deprecated schema version, deprecated <global> include, glob bounds).
	SeverityWarning
	// SeverityInfo marks an informational note (e.g. "default project
	// augmented with F").
	SeverityInfo
	// SeverityHint marks the mildest category, reserved for style nits
	// surfaced by the compile frontend rather than the config layer.
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a severity, a message, the file it concerns, and an
// optional literal context string that the LSP adapter later expands into
// one or more character ranges by scanning the referenced file (spec.md
// §4.5, "Diagnostic routing").
type Diagnostic struct {
	Severity Severity
	Message  string
	File     string // canonical absolute path of the file this concerns
	Literal  string // exact source text to scan for; empty if none
}

// Sink accumulates diagnostics during one parse/expand/resolve pass. The
// Glob Expander and Config Parser are stateless and take a Sink rather than
// owning one, so callers control the diagnostic's final disposition.
type Sink struct {
	diags []Diagnostic
}

// NewSink returns an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends a diagnostic to the sink.
func (s *Sink) Add(d Diagnostic) {
	s.diags = append(s.diags, d)
}

// Errorf appends an error-severity diagnostic.
func (s *Sink) Errorf(file, literal, format string, args ...any) {
	s.Add(Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...), File: file, Literal: literal})
}

// Warnf appends a warning-severity diagnostic.
func (s *Sink) Warnf(file, literal, format string, args ...any) {
	s.Add(Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), File: file, Literal: literal})
}

// Infof appends an info-severity diagnostic.
func (s *Sink) Infof(file, literal, format string, args ...any) {
	s.Add(Diagnostic{Severity: SeverityInfo, Message: fmt.Sprintf(format, args...), File: file, Literal: literal})
}

// All returns every diagnostic added so far, in insertion order.
func (s *Sink) All() []Diagnostic {
	return s.diags
}

// HasErrors reports whether any SeverityError diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ForFile returns only the diagnostics concerning the given canonical path.
func (s *Sink) ForFile(file string) []Diagnostic {
	var out []Diagnostic
	for _, d := range s.diags {
		if d.File == file {
			out = append(out, d)
		}
	}
	return out
}
