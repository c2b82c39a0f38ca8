package advance

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aitri-dev/aitri/internal/debug"
	"github.com/aitri-dev/aitri/internal/status"
	"github.com/aitri-dev/aitri/internal/telemetry"
)

const scopeName = "github.com/aitri-dev/aitri/advance"

// DefaultMaxSteps bounds one auto-advance chain.
const DefaultMaxSteps = 10

// StatusSource recomputes the project status after each step.
type StatusSource interface {
	Recommend(ctx context.Context) (status.Report, error)
}

// Prompter asks the operator a yes/no question.
type Prompter interface {
	Confirm(question string, defaultYes bool) (bool, error)
}

// Dispatcher runs one CLI invocation. err is non-nil only when the command
// could not be started; a child that ran and failed returns its exit code.
type Dispatcher interface {
	Dispatch(ctx context.Context, args []string) (exitCode int, err error)
}

// Completer hands off once every feature is delivered.
type Completer interface {
	Complete(ctx context.Context, report status.Report) error
}

// StatusFunc adapts a function to StatusSource.
type StatusFunc func(ctx context.Context) (status.Report, error)

// Recommend calls f.
func (f StatusFunc) Recommend(ctx context.Context) (status.Report, error) { return f(ctx) }

// Action is what one step of the loop did.
type Action string

const (
	ActionNone        Action = "none"
	ActionGuidance    Action = "guidance"
	ActionDeclined    Action = "declined"
	ActionDispatched  Action = "dispatched"
	ActionCompleted   Action = "completed"
	ActionLoopRefused Action = "loop_refused"
	ActionFailed      Action = "failed"
)

// Step records one iteration.
type Step struct {
	Action   Action     `json:"action"`
	Command  string     `json:"command,omitempty"`
	ExitCode int        `json:"exitCode"`
	Gate     GateReason `json:"gate,omitempty"`
}

// Outcome is the final exit code and what happened on the way.
type Outcome struct {
	ExitCode int    `json:"exitCode"`
	Steps    []Step `json:"steps"`
}

// Last returns the final step's action.
func (o Outcome) Last() Action {
	if len(o.Steps) == 0 {
		return ActionNone
	}
	return o.Steps[len(o.Steps)-1].Action
}

// Orchestrator drives the recommend, gate, prompt, dispatch loop.
type Orchestrator struct {
	Status     StatusSource
	Prompter   Prompter
	Dispatcher Dispatcher
	// Completer is optional; nil prints the completion message.
	Completer Completer
	// Out receives diagnostics and guidance. Defaults to stderr.
	Out io.Writer
	// Program is the CLI name stripped from recommended commands.
	Program string
	// MaxSteps caps dispatches per run. Values below 1 mean DefaultMaxSteps.
	MaxSteps int
}

// Run advances from s until a gate closes, the operator declines, a child
// fails, or MaxSteps is reached. The returned code is the exit code the
// process should end with.
func (o *Orchestrator) Run(ctx context.Context, s Session) Outcome {
	out := o.Out
	if out == nil {
		out = os.Stderr
	}
	maxSteps := o.MaxSteps
	if maxSteps < 1 {
		maxSteps = DefaultMaxSteps
	}
	inst := telemetry.NewInstrument(scopeName, "advance")

	res := Outcome{ExitCode: s.ExitCode}
	for i := 0; i < maxSteps; i++ {
		if reason := Gate(s); reason != GateOpen {
			debug.Logf("advance: gate closed (%s)\n", reason)
			res.Steps = append(res.Steps, Step{Action: ActionNone, ExitCode: s.ExitCode, Gate: reason})
			return res
		}

		report, err := o.Status.Recommend(ctx)
		if err != nil {
			fmt.Fprintf(out, "Auto-advance skipped: could not compute status: %v\n", err)
			res.Steps = append(res.Steps, Step{Action: ActionNone, ExitCode: s.ExitCode})
			return res
		}

		switch report.NextStep {
		case status.StepComplete:
			o.complete(ctx, out, report)
			res.Steps = append(res.Steps, Step{Action: ActionCompleted, ExitCode: s.ExitCode})
			return res
		case status.StepWriteCode:
			printWriteCodeGuidance(out, report)
			res.Steps = append(res.Steps, Step{Action: ActionGuidance, Command: report.RecommendedCommand, ExitCode: s.ExitCode})
			return res
		}

		tokens := ParseCommand(report.RecommendedCommand, o.Program)
		if len(tokens) == 0 {
			fmt.Fprintln(out, report.NextStepMessage)
			res.Steps = append(res.Steps, Step{Action: ActionGuidance, ExitCode: s.ExitCode})
			return res
		}
		if tokens[0] == s.Command {
			fmt.Fprintf(out, "Auto-advance stopped: %s was just run. Run it manually: %s\n", s.Command, report.RecommendedCommand)
			res.Steps = append(res.Steps, Step{Action: ActionLoopRefused, Command: report.RecommendedCommand, ExitCode: s.ExitCode})
			return res
		}

		question := fmt.Sprintf("%s\nRun next step: %s?", report.NextStepMessage, report.RecommendedCommand)
		ok, err := o.Prompter.Confirm(question, true)
		if err != nil {
			debug.Logf("advance: prompt failed: %v\n", err)
		}
		if err != nil || !ok {
			fmt.Fprintf(out, "Auto-advance declined. Next: %s\n", report.RecommendedCommand)
			res.Steps = append(res.Steps, Step{Action: ActionDeclined, Command: report.RecommendedCommand, ExitCode: s.ExitCode})
			return res
		}

		stepCtx, op := inst.Start(ctx, "dispatch", attribute.String("aitri.command", tokens[0]))
		code, err := o.Dispatcher.Dispatch(stepCtx, tokens)
		op.SetAttributes(attribute.Int("aitri.exit_code", code))
		op.End(err)
		if err != nil {
			fmt.Fprintf(out, "Auto-advance failed: could not run %s: %v\n", report.RecommendedCommand, err)
			res.ExitCode = 1
			res.Steps = append(res.Steps, Step{Action: ActionFailed, Command: report.RecommendedCommand, ExitCode: 1})
			return res
		}
		res.ExitCode = code
		if code != 0 {
			fmt.Fprintf(out, "Auto-advance failed: %s exited with code %d\n", report.RecommendedCommand, code)
			res.Steps = append(res.Steps, Step{Action: ActionFailed, Command: report.RecommendedCommand, ExitCode: code})
			return res
		}
		res.Steps = append(res.Steps, Step{Action: ActionDispatched, Command: report.RecommendedCommand, ExitCode: code})

		s.ExitCode = code
		s.Command = tokens[0]
	}

	fmt.Fprintf(out, "Auto-advance paused after %d steps. Run `%s status` to continue.\n", maxSteps, programOrDefault(o.Program))
	return res
}

func (o *Orchestrator) complete(ctx context.Context, out io.Writer, report status.Report) {
	if o.Completer == nil {
		fmt.Fprintln(out, report.NextStepMessage)
		return
	}
	if err := o.Completer.Complete(ctx, report); err != nil {
		fmt.Fprintf(out, "Warning: completion handoff failed: %v\n", err)
	}
}

func printWriteCodeGuidance(out io.Writer, report status.Report) {
	fmt.Fprintf(out, "Next: write the code for %s.\n", report.Feature)
	fmt.Fprintf(out, "  %s\n", report.NextStepMessage)
	if report.RecommendedCommand != "" {
		fmt.Fprintf(out, "  When the tests pass, run: %s\n", report.RecommendedCommand)
	}
}

func programOrDefault(p string) string {
	if p == "" {
		return "aitri"
	}
	return p
}
