// Package ui provides terminal styling for aitri CLI output.
// Colors follow the Ayu theme and adapt to light and dark terminals.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Ayu palette.
var (
	ColorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	PassStyle     = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle     = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle     = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle   = lipgloss.NewStyle().Foreground(ColorAccent)
	CategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	CommandStyle  = lipgloss.NewStyle().Bold(true)
)

// icon is a glyph with the ASCII stand-in used when emoji are off.
type icon struct {
	glyph, ascii string
	style        lipgloss.Style
}

func (i icon) render() string {
	if ShouldUseEmoji() {
		return i.style.Render(i.glyph)
	}
	return i.style.Render(i.ascii)
}

var (
	iconPass = icon{"✓", "ok", PassStyle}
	iconWarn = icon{"⚠", "!", WarnStyle}
	iconFail = icon{"✗", "x", FailStyle}
	iconInfo = icon{"ℹ", "-", AccentStyle}
)

func RenderPass(s string) string   { return PassStyle.Render(s) }
func RenderWarn(s string) string   { return WarnStyle.Render(s) }
func RenderFail(s string) string   { return FailStyle.Render(s) }
func RenderMuted(s string) string  { return MutedStyle.Render(s) }
func RenderAccent(s string) string { return AccentStyle.Render(s) }

// RenderCategory renders a section header, uppercased.
func RenderCategory(s string) string {
	return CategoryStyle.Render(strings.ToUpper(s))
}

// RenderCommand highlights a shell command the user can copy.
func RenderCommand(cmd string) string {
	return CommandStyle.Render(cmd)
}

func RenderPassIcon() string { return iconPass.render() }
func RenderWarnIcon() string { return iconWarn.render() }
func RenderFailIcon() string { return iconFail.render() }
func RenderInfoIcon() string { return iconInfo.render() }

// stateLook maps lifecycle states onto a style and icon. States not listed
// are in flight and render accented.
var stateLook = map[string]struct {
	style lipgloss.Style
	icon  icon
}{
	"delivered": {PassStyle, iconPass},
	"blocked":   {FailStyle, iconFail},
	"unknown":   {WarnStyle, iconWarn},
	"draft":     {MutedStyle, iconInfo},
}

// RenderState colors a lifecycle state name.
func RenderState(state string) string {
	if look, ok := stateLook[state]; ok {
		return look.style.Render(state)
	}
	return AccentStyle.Render(state)
}

// StateIcon returns the icon shown next to a feature in lists.
func StateIcon(state string) string {
	if look, ok := stateLook[state]; ok {
		return look.icon.render()
	}
	return iconInfo.render()
}
