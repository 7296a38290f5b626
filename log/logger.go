package log

import (
	"fmt"
	"io"
)

// Logger is a minimal wrapper around an io.Writer.
type Logger struct {
	io.Writer
}

// New returns a new logger which writes to w.
func New(w io.Writer) *Logger {
	return &Logger{Writer: w}
}

// Logln logs a line.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string.
func (l *Logger) Logf(f string, args ...interface{}) {
	fmt.Fprintf(l, f, args...)
}

// Tracef logs a formatted line prefixed with category, so a single logger
// attached to both a Solver and a cache.Provider can be told apart in the
// output without two separate io.Writers. The solver passes "resolve" for
// every decision and backtrack; the cache package passes "cache" for hits
// and misses of version and dependency lookups.
func (l *Logger) Tracef(category, format string, args ...interface{}) {
	fmt.Fprintf(l, category+": "+format+"\n", args...)
}
