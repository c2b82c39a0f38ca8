// Package advance runs the next recommended workflow command after the
// current one finishes, when a person at a terminal agrees to it.
//
// The orchestrator never computes recommendations itself. It asks a
// StatusSource, gates on the session, prompts, and re-invokes the CLI. A
// recommendation that names the command just run is refused, and the loop
// is bounded by MaxSteps.
package advance

import (
	"path/filepath"
	"strings"
)

// Mode is the output mode of the finished command.
type Mode string

const (
	ModeHuman Mode = "human"
	ModeJSON  Mode = "json"
	ModeUI    Mode = "ui"
)

// Session describes the command that just finished.
type Session struct {
	ExitCode       int
	Command        string
	Mode           Mode
	Disabled       bool
	NonInteractive bool
	// AutoConfirm is set by --yes; auto-advance never runs unattended.
	AutoConfirm bool
	StdinTTY    bool
	StdoutTTY   bool
}

// GateReason says why a session is not eligible for auto-advance.
type GateReason string

const (
	GateOpen           GateReason = ""
	GateFailed         GateReason = "command_failed"
	GateDisabled       GateReason = "disabled"
	GateNotTTY         GateReason = "not_a_terminal"
	GateNonInteractive GateReason = "non_interactive"
	GateAutoConfirm    GateReason = "auto_confirm"
	GateMode           GateReason = "output_mode"
	GateCommand        GateReason = "command"
)

// Gate reports whether s may auto-advance. Every condition must hold.
func Gate(s Session) GateReason {
	switch {
	case s.ExitCode != 0:
		return GateFailed
	case s.Disabled:
		return GateDisabled
	case !s.StdinTTY || !s.StdoutTTY:
		return GateNotTTY
	case s.NonInteractive:
		return GateNonInteractive
	case s.AutoConfirm:
		return GateAutoConfirm
	case s.Mode != ModeHuman:
		return GateMode
	case s.Command == "" || s.Command == "help":
		return GateCommand
	}
	return GateOpen
}

// ParseCommand splits a recommended command line into dispatch arguments,
// dropping the leading program token ("aitri", "./bin/aitri").
func ParseCommand(line, program string) []string {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}
	if program == "" {
		program = "aitri"
	}
	if filepath.Base(tokens[0]) == program {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
