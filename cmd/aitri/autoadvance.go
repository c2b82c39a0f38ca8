package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aitri-dev/aitri/internal/advance"
	"github.com/aitri-dev/aitri/internal/config"
	"github.com/aitri-dev/aitri/internal/status"
	"github.com/aitri-dev/aitri/internal/ui"
)

// runAutoAdvance offers to run the recommended next command once the
// executed command has finished. It returns the process exit code.
func runAutoAdvance(ctx context.Context, executed *cobra.Command, code int) int {
	s := sessionFor(executed, code)
	if advance.Gate(s) != advance.GateOpen {
		return code
	}

	o := &advance.Orchestrator{
		Status:     advanceStatus(getProject()),
		Prompter:   advance.HuhPrompter{Accessible: os.Getenv("ACCESSIBLE") != ""},
		Dispatcher: childDispatcher(),
		Completer:  completionHandoff{},
		Out:        os.Stderr,
		Program:    program(),
		MaxSteps:   config.GetInt(config.KeyAdvanceMaxSteps),
	}
	return o.Run(ctx, s).ExitCode
}

// advanceStatus recommends the next step for the feature the finished
// command worked on. Commands without one, and delivered features, get the
// project-wide pick.
func advanceStatus(p *Project) advance.StatusFunc {
	name := ""
	if cmdCtx != nil {
		name = cmdCtx.Feature
	}
	return func(ctx context.Context) (status.Report, error) {
		return p.Report(ctx, name)
	}
}

// sessionFor describes the finished command for the gate.
func sessionFor(executed *cobra.Command, code int) advance.Session {
	name := ""
	if executed != nil && executed != rootCmd {
		name = executed.Name()
	}
	return advance.Session{
		ExitCode:       code,
		Command:        name,
		Mode:           outputMode(),
		Disabled:       noAdvance || !config.GetBool(config.KeyAdvanceEnabled),
		NonInteractive: nonInteractive || ui.IsAgentMode(),
		AutoConfirm:    yesFlag,
		StdinTTY:       ui.StdinIsTerminal(),
		StdoutTTY:      ui.IsTerminal(),
	}
}

// childDispatcher re-runs this binary against the same project.
func childDispatcher() *advance.ExecDispatcher {
	d := &advance.ExecDispatcher{}
	if rootFlag != "" {
		d.Args = []string{"--root", rootFlag}
	}
	if verboseFlag {
		d.Args = append(d.Args, "--verbose")
	}
	return d
}

// completionHandoff closes the loop when every feature is delivered.
type completionHandoff struct{}

func (completionHandoff) Complete(_ context.Context, r status.Report) error {
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderPassIcon(), ui.RenderPass(r.NextStepMessage))
	fmt.Fprintf(os.Stderr, "  Start the next feature with: %s\n",
		ui.RenderCommand(program()+" draft --feature <name>"))
	return nil
}
