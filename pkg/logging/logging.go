// Package logging provides the ambient tracing interface used across the
// protocol packages: one line per state transition, gated behind a small
// interface instead of hard-coded fmt calls, so callers can swap in a
// --verbose CLI logger or discard everything in tests.
package logging

import (
	"fmt"
	"log"
	"os"
)

// Logger is the minimal tracing surface pkg/node, pkg/abba, pkg/rbc,
// pkg/registry and pkg/protocol depend on.
type Logger interface {
	Printf(format string, args ...any)
}

// Discard drops every message; the default for tests and quiet runs.
var Discard Logger = discard{}

type discard struct{}

func (discard) Printf(string, ...any) {}

// Std wraps the standard library logger for the CLI's --verbose trace
// output, one line per state transition.
func Std(prefix string) Logger {
	return &stdLogger{l: log.New(os.Stderr, prefix, log.LstdFlags)}
}

type stdLogger struct {
	l *log.Logger
}

func (s *stdLogger) Printf(format string, args ...any) {
	s.l.Output(2, fmt.Sprintf(format, args...)) //nolint:errcheck
}
