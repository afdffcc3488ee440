// Package logger provides verbose logging for docvault.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace the upload and retrieval pipelines.
// Errors are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(always bool, level, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose || always {
		fmt.Fprintf(output, "%s%s%s\n", level, prefix, fmt.Sprintf(format, args...))
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(false, "[DEBUG] ", "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(false, "[INFO] ", "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(false, "[WARN] ", "", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	logf(true, "[ERROR] ", "", format, args...)
}

// Scoped prefixes every message with the owner it concerns.
type Scoped struct {
	prefix string
}

// Owner returns a logger whose messages name the given owner.
func Owner(id string) Scoped {
	return Scoped{prefix: "[owner=" + id + "] "}
}

// Debug prints a message if verbose mode is enabled.
func (s Scoped) Debug(format string, args ...any) {
	logf(false, "[DEBUG] ", s.prefix, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func (s Scoped) Info(format string, args ...any) {
	logf(false, "[INFO] ", s.prefix, format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func (s Scoped) Warn(format string, args ...any) {
	logf(false, "[WARN] ", s.prefix, format, args...)
}

// Error prints an error message regardless of verbose mode.
func (s Scoped) Error(format string, args ...any) {
	logf(true, "[ERROR] ", s.prefix, format, args...)
}
