// Package debug holds the process-wide verbosity switches. Debug logs go to
// stderr so they never mix with command output or JSON.
package debug

import (
	"fmt"
	"io"
	"os"
	"time"
)

var (
	// AITRI_DEBUG turns logging on before flags are parsed.
	envEnabled = os.Getenv("AITRI_DEBUG") != ""
	verbose    bool
	quiet      bool

	out io.Writer = os.Stderr
)

// Enabled reports whether Logf writes anything.
func Enabled() bool { return envEnabled || verbose }

// SetVerbose toggles --verbose.
func SetVerbose(v bool) { verbose = v }

// SetQuiet toggles --quiet. Quiet suppresses informational stderr lines
// such as skipped checkpoints; errors and warnings are always printed.
func SetQuiet(q bool) { quiet = q }

// IsQuiet reports whether --quiet is in effect.
func IsQuiet() bool { return quiet }

// SetOutput redirects debug logs and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// Logf writes a debug line when Enabled.
func Logf(format string, args ...interface{}) {
	if Enabled() {
		fmt.Fprintf(out, format, args...)
	}
}

// Elapsed logs how long step took:
//
//	defer debug.Elapsed("status", time.Now())
func Elapsed(step string, start time.Time) {
	Logf("debug: %s took %s\n", step, time.Since(start).Round(time.Millisecond))
}
