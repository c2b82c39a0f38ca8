package ui

import (
	"os"
	"strings"
	"testing"
)

func TestShouldUseColor(t *testing.T) {
	tests := []struct {
		name          string
		noColor       string
		cliColor      string
		cliColorForce string
		wantColor     bool
	}{
		{name: "NO_COLOR disables color", noColor: "1", wantColor: false},
		{name: "CLICOLOR=0 disables color", cliColor: "0", wantColor: false},
		{name: "CLICOLOR_FORCE enables color even in non-TTY", cliColorForce: "1", wantColor: true},
		{name: "NO_COLOR takes precedence over CLICOLOR_FORCE", noColor: "1", cliColorForce: "1", wantColor: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetForTest(t, "NO_COLOR", "CLICOLOR", "CLICOLOR_FORCE")
			if tt.noColor != "" {
				t.Setenv("NO_COLOR", tt.noColor)
			}
			if tt.cliColor != "" {
				t.Setenv("CLICOLOR", tt.cliColor)
			}
			if tt.cliColorForce != "" {
				t.Setenv("CLICOLOR_FORCE", tt.cliColorForce)
			}

			if got := ShouldUseColor(); got != tt.wantColor {
				t.Errorf("ShouldUseColor() = %v, want %v", got, tt.wantColor)
			}
		})
	}
}

func TestShouldUseEmoji(t *testing.T) {
	t.Setenv("AITRI_NO_EMOJI", "1")
	if ShouldUseEmoji() {
		t.Error("ShouldUseEmoji() = true with AITRI_NO_EMOJI set")
	}
}

func TestIsAgentMode(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		wantA bool
	}{
		{"nothing set", nil, false},
		{"explicit on", map[string]string{"AITRI_AGENT_MODE": "1"}, true},
		{"explicit off wins", map[string]string{"AITRI_AGENT_MODE": "false", "CLAUDECODE": "1"}, false},
		{"detected agent", map[string]string{"CLAUDECODE": "1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetForTest(t, "AITRI_AGENT_MODE", "CLAUDECODE", "CODEX_SANDBOX")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := IsAgentMode(); got != tt.wantA {
				t.Errorf("IsAgentMode() = %v, want %v", got, tt.wantA)
			}
		})
	}
}

func TestRenderMarkdownPlainWhenNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	in := "# Title\n\nbody\n"
	if got := RenderMarkdown(in); got != in {
		t.Errorf("RenderMarkdown() with NO_COLOR = %q, want input unchanged", got)
	}
}

func TestRenderStateKeepsText(t *testing.T) {
	for _, s := range []string{"draft", "approved", "implementation", "deliver_pending", "blocked", "delivered", "unknown"} {
		if got := RenderState(s); !strings.Contains(got, s) {
			t.Errorf("RenderState(%q) = %q", s, got)
		}
		if StateIcon(s) == "" {
			t.Errorf("StateIcon(%q) is empty", s)
		}
	}
}

func TestTerminalWidthFallback(t *testing.T) {
	// Under go test stdout is normally not a terminal.
	if !IsTerminal() {
		if got := TerminalWidth(72); got != 72 {
			t.Errorf("TerminalWidth(72) = %d", got)
		}
	}
}

// unsetForTest clears keys for the duration of the test.
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if old, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, old) })
		}
		os.Unsetenv(k)
	}
}

func TestIconsFallBackToASCII(t *testing.T) {
	t.Setenv("AITRI_NO_EMOJI", "1")
	t.Setenv("NO_COLOR", "1")
	if got := StateIcon("delivered"); !strings.Contains(got, "ok") {
		t.Errorf("StateIcon(delivered) = %q, want ASCII fallback", got)
	}
	if got := RenderFailIcon(); strings.Contains(got, "✗") {
		t.Errorf("RenderFailIcon() = %q, want no glyph", got)
	}
}

func TestPagerSkipped(t *testing.T) {
	if argv := pagerArgv("line\n", PagerOptions{NoPager: true}); argv != nil {
		t.Errorf("pagerArgv(NoPager) = %v", argv)
	}
	t.Setenv("AITRI_NO_PAGER", "1")
	if argv := pagerArgv(strings.Repeat("x\n", 500), PagerOptions{}); argv != nil {
		t.Errorf("pagerArgv with AITRI_NO_PAGER = %v", argv)
	}
}
