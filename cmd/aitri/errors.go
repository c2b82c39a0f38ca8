package main

import (
	"fmt"
	"os"
)

// FatalError writes an error message to stderr and exits with code 1.
// Use this for fatal errors that prevent the command from completing.
//
// In --json mode the error is written as {"error": ...} instead.
//
// Example:
//
//	if err := writeDraft(layout, name, idea); err != nil {
//	    FatalError("%v", err)
//	}
func FatalError(format string, args ...interface{}) {
	if jsonOutput {
		outputJSONError(fmt.Errorf(format, args...), "")
	}
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// FatalErrorWithHint writes an error message with a hint to stderr and exits.
// Use this when you can provide an actionable suggestion to fix the error.
//
// Example:
//
//	FatalErrorWithHint("no draft spec for login", "Run 'aitri draft --feature login' first")
func FatalErrorWithHint(message, hint string) {
	if jsonOutput {
		outputJSONError(fmt.Errorf("%s", message), "")
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	os.Exit(1)
}

// WarnError writes a warning message to stderr and returns.
// Use this for optional operations that enhance functionality but aren't required,
// such as checkpoints and auto-advance.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
