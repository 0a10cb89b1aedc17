// Package clox holds ambient, non-core wiring shared by cmd/glox: the
// diagnostic logger and anything else that isn't part of the language
// itself. Grounded on jesseduffield-lazydocker's use of a single
// package-level logrus.Logger for operator-facing diagnostics, kept
// entirely separate from the program's own stdout (the Lox `print`
// statement, the REPL's prompt and results).
package clox

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus.Logger configured for glox's GC/VM trace
// output. verbose raises the level to Debug (the level the GC's trace
// lines are emitted at); otherwise only warnings and above are shown.
func NewLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}
