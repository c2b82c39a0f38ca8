package advance

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess is the dispatched child. It prints its args and the
// loop-guard variable, then exits with the code given as the first arg.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	fmt.Printf("args=%s\n", strings.Join(args, " "))
	fmt.Printf("AITRI_AUTO_ADVANCE=%s\n", os.Getenv("AITRI_AUTO_ADVANCE"))
	code := 0
	if len(args) > 0 {
		code, _ = strconv.Atoi(args[0])
	}
	os.Exit(code)
}

func helperDispatcher(stdout *bytes.Buffer) *ExecDispatcher {
	return &ExecDispatcher{
		Executable: os.Args[0],
		Args:       []string{"-test.run=TestHelperProcess", "--"},
		Env:        append(os.Environ(), "GO_WANT_HELPER_PROCESS=1"),
		Stdin:      strings.NewReader(""),
		Stdout:     stdout,
		Stderr:     &bytes.Buffer{},
	}
}

func TestExecDispatcherSuccess(t *testing.T) {
	var stdout bytes.Buffer
	code, err := helperDispatcher(&stdout).Dispatch(context.Background(), []string{"0", "approve", "--feature", "f"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "args=0 approve --feature f")
	assert.Contains(t, stdout.String(), "AITRI_AUTO_ADVANCE=false")
}

func TestExecDispatcherExitCode(t *testing.T) {
	var stdout bytes.Buffer
	code, err := helperDispatcher(&stdout).Dispatch(context.Background(), []string{"7"})
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestExecDispatcherSpawnFailure(t *testing.T) {
	d := &ExecDispatcher{Executable: "/nonexistent/aitri-binary", Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	code, err := d.Dispatch(context.Background(), []string{"status"})
	assert.Error(t, err)
	assert.Equal(t, 1, code)
}
