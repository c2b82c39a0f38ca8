package advance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ChildEnv is appended to every dispatched child so only the parent loops.
const ChildEnv = "AITRI_AUTO_ADVANCE=false"

// ExecDispatcher re-invokes the CLI binary as a child process.
type ExecDispatcher struct {
	// Executable defaults to os.Executable().
	Executable string
	// Args are placed before the dispatched tokens.
	Args []string
	Dir  string
	// Env defaults to os.Environ().
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Dispatch runs the child and waits for it.
func (d *ExecDispatcher) Dispatch(ctx context.Context, args []string) (int, error) {
	exe := d.Executable
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return 1, fmt.Errorf("resolve executable: %w", err)
		}
	}

	argv := append(append([]string{}, d.Args...), args...)
	cmd := exec.CommandContext(ctx, exe, argv...) // #nosec G204 -- re-exec of our own binary
	cmd.Dir = d.Dir
	env := d.Env
	if env == nil {
		env = os.Environ()
	}
	cmd.Env = append(append([]string{}, env...), ChildEnv)
	cmd.Stdin = orReader(d.Stdin, os.Stdin)
	cmd.Stdout = orWriter(d.Stdout, os.Stdout)
	cmd.Stderr = orWriter(d.Stderr, os.Stderr)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 1, err
}

func orReader(r, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orWriter(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
