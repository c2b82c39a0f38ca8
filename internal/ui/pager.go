package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// PagerOptions controls pager behavior.
type PagerOptions struct {
	// NoPager prints directly (--no-pager).
	NoPager bool
}

// pagerArgv returns the pager command line, or nil when content should be
// printed directly: paging disabled, stdout not a terminal, or content
// shorter than the screen.
func pagerArgv(content string, opts PagerOptions) []string {
	if opts.NoPager || os.Getenv("AITRI_NO_PAGER") != "" {
		return nil
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	if _, height, err := term.GetSize(fd); err == nil && height > 0 {
		if strings.Count(content, "\n")+1 < height {
			return nil
		}
	}
	pager := os.Getenv("AITRI_PAGER")
	if pager == "" {
		pager = os.Getenv("PAGER")
	}
	if pager == "" {
		pager = "less"
	}
	return strings.Fields(pager)
}

// ToPager writes content through $AITRI_PAGER, $PAGER or less when it
// would scroll off the screen, and straight to stdout otherwise.
func ToPager(content string, opts PagerOptions) error {
	argv := pagerArgv(content, opts)
	if len(argv) == 0 {
		fmt.Print(content)
		return nil
	}

	cmd := exec.Command(argv[0], argv[1:]...) // #nosec G204 - pager is user-configured
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if os.Getenv("LESS") == "" {
		// Keep colors, quit when it fits, leave the screen alone on exit.
		cmd.Env = append(cmd.Env, "LESS=-RFX")
	}
	return cmd.Run()
}
