package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

func init() {
	if !ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// StdinIsTerminal reports whether stdin is a terminal.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ShouldUseColor follows the NO_COLOR and CLICOLOR conventions:
// NO_COLOR (any value) disables, CLICOLOR=0 disables, CLICOLOR_FORCE
// enables even when piped, otherwise color is used only on a terminal.
func ShouldUseColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if f := os.Getenv("CLICOLOR_FORCE"); f != "" && f != "0" {
		return true
	}
	if !IsTerminal() {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

// ShouldUseEmoji reports whether icons beyond ASCII should be printed.
func ShouldUseEmoji() bool {
	if os.Getenv("AITRI_NO_EMOJI") != "" {
		return false
	}
	return IsTerminal()
}

// IsAgentMode reports whether output is being consumed by a coding agent
// rather than a person, in which case decoration is skipped.
func IsAgentMode() bool {
	if v := os.Getenv("AITRI_AGENT_MODE"); v != "" {
		return v != "0" && v != "false"
	}
	return os.Getenv("CLAUDECODE") != "" || os.Getenv("CODEX_SANDBOX") != ""
}

// TerminalWidth returns stdout's width, or fallback when unknown.
func TerminalWidth(fallback int) int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}
