// Package log provides a minimal level-filtered logger for the server.
// Output defaults to stderr so it never collides with LSP traffic on stdout.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug is for verbose tracing of resolver/orchestrator decisions.
	LevelDebug Level = iota
	// LevelInfo is for reload/rebuild lifecycle events.
	LevelInfo
	// LevelWarn is for resource-warnings (bounds, missing optional includes).
	LevelWarn
	// LevelError is for configuration and request errors.
	LevelError
)

// String implements fmt.Stringer for Level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "LevelDebug"
	case LevelInfo:
		return "LevelInfo"
	case LevelWarn:
		return "LevelWarn"
	case LevelError:
		return "LevelError"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

var (
	mu       sync.Mutex
	output   io.Writer = os.Stderr
	minLevel atomic.Int32
	prefix          = "[artic-lsp]"
)

func init() {
	minLevel.Store(int32(LevelInfo))
}

// SetOutput redirects log output (tests only; production always uses stderr).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetLevel sets the minimum level that will be emitted.
func SetLevel(level Level) {
	minLevel.Store(int32(level))
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	return Level(minLevel.Load())
}

// Debug logs verbose diagnostic detail.
func Debug(format string, args ...interface{}) { emit(LevelDebug, format, args...) }

// Info logs a notable lifecycle event (reload, rebuild, safe-mode change).
func Info(format string, args ...interface{}) { emit(LevelInfo, format, args...) }

// Warn logs a resource-warning or other non-fatal anomaly.
func Warn(format string, args ...interface{}) { emit(LevelWarn, format, args...) }

// Error logs a configuration or request error.
func Error(format string, args ...interface{}) { emit(LevelError, format, args...) }

func emit(level Level, format string, args ...interface{}) {
	// Fast path avoids lock contention for filtered-out messages.
	if int32(level) < minLevel.Load() {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if int32(level) < minLevel.Load() || output == nil {
		return
	}

	label := "DEBUG"
	switch level {
	case LevelInfo:
		label = "INFO"
	case LevelWarn:
		label = "WARN"
	case LevelError:
		label = "ERROR"
	}

	newArgs := make([]interface{}, 0, len(args)+2)
	newArgs = append(newArgs, prefix, label)
	newArgs = append(newArgs, args...)
	fmt.Fprintf(output, "%s %s: "+format+"\n", newArgs...)
}
