package ui

import (
	"github.com/charmbracelet/glamour"
)

// maxMarkdownWidth keeps dashboard tables readable on wide terminals.
const maxMarkdownWidth = 100

// RenderMarkdown renders md for the terminal. Agents and colorless output
// get md unchanged, as does anything glamour fails on.
func RenderMarkdown(md string) string {
	if IsAgentMode() || !ShouldUseColor() {
		return md
	}
	width := min(TerminalWidth(80), maxMarkdownWidth)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
