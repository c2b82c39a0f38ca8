package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aitri-dev/aitri/internal/advance"
)

// CommandContext holds all runtime state for one invocation.
type CommandContext struct {
	// Configuration (derived from flags and config)
	JSONOutput bool
	Verbose    bool
	Quiet      bool

	// Mode is the output mode reported to auto-advance. Commands that
	// render the dashboard set ModeUI.
	Mode advance.Mode

	// Feature is the feature a mutating command worked on. It labels the
	// checkpoint; empty means the project as a whole.
	Feature string

	// ExitCode is a non-zero exit status set by a command that finished
	// without a fatal error.
	ExitCode int

	// Runtime state
	Project    *Project
	RootCtx    context.Context
	RootCancel context.CancelFunc
}

// cmdCtx is the global CommandContext instance.
var cmdCtx *CommandContext

// initCommandContext creates and initializes a new CommandContext.
// Called from PersistentPreRun to set up runtime state.
func initCommandContext() {
	cmdCtx = &CommandContext{Mode: advance.ModeHuman}
}

// resetCommandContext clears the CommandContext for testing.
func resetCommandContext() {
	cmdCtx = nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// getRootContext returns the signal-aware context, or Background before
// PersistentPreRun has run.
func getRootContext() context.Context {
	if cmdCtx == nil || cmdCtx.RootCtx == nil {
		return context.Background()
	}
	return cmdCtx.RootCtx
}

// setFeature records the feature a mutating command touched.
func setFeature(name string) {
	if cmdCtx != nil {
		cmdCtx.Feature = name
	}
}

// exitCode sets the status the process exits with after post-run steps.
func exitCode(code int) {
	if cmdCtx != nil {
		cmdCtx.ExitCode = code
	}
}

// setMode records a non-human output mode.
func setMode(m advance.Mode) {
	if cmdCtx != nil {
		cmdCtx.Mode = m
	}
}

// outputMode is the mode auto-advance gates on.
func outputMode() advance.Mode {
	if jsonOutput {
		return advance.ModeJSON
	}
	if cmdCtx == nil {
		return advance.ModeHuman
	}
	return cmdCtx.Mode
}
