package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aitri-dev/aitri/internal/config"
	"github.com/aitri-dev/aitri/internal/debug"
	"github.com/aitri-dev/aitri/internal/telemetry"
)

var (
	jsonOutput     bool
	rootFlag       string
	verboseFlag    bool
	quietFlag      bool
	noCheckpoint   bool
	noAdvance      bool
	nonInteractive bool
	yesFlag        bool
)

// Command annotations read by the post-run pipeline.
const (
	// annotationMutating marks commands that change workflow artifacts and
	// are checkpointed after they succeed.
	annotationMutating = "aitri.mutating"
)

func init() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Project root (default: discovered .aitri/, git top level, or cwd)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noCheckpoint, "no-checkpoint", false, "Skip the automatic git checkpoint after this command")
	rootCmd.PersistentFlags().BoolVar(&noAdvance, "no-advance", false, "Do not offer to run the next step")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Never prompt")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Assume yes for confirmations (disables auto-advance)")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	rootCmd.AddGroup(&cobra.Group{ID: "workflow", Title: "Workflow:"})
	rootCmd.AddGroup(&cobra.Group{ID: "views", Title: "Views & Reports:"})
	rootCmd.AddGroup(&cobra.Group{ID: "setup", Title: "Setup & Integrations:"})
}

var rootCmd = &cobra.Command{
	Use:   "aitri",
	Short: "aitri - spec-driven feature workflow",
	Long: `Drive features from draft spec to delivery. aitri derives every feature's
state from the files in the repository, checkpoints progress in git, and
offers to run the next step when you finish one.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println(currentVersion())
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initCommandContext()
		setupSignalContext()
		applyVerbosityFlags()
		applyConfigOverrides(cmd)
		setupTelemetry()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if isMutating(cmd) {
			runAutoCheckpoint(getRootContext(), cmd)
		}
	},
}

func isMutating(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationMutating] == "true"
}

func mutating() map[string]string {
	return map[string]string{annotationMutating: "true"}
}

func setupSignalContext() {
	ctx, cancel := signalContext()
	cmdCtx.RootCtx = ctx
	cmdCtx.RootCancel = cancel
}

// applyVerbosityFlags propagates --verbose and --quiet to the debug package.
func applyVerbosityFlags() {
	cmdCtx.Verbose = verboseFlag
	cmdCtx.Quiet = quietFlag
	debug.SetVerbose(verboseFlag)
	debug.SetQuiet(quietFlag)
}

// applyConfigOverrides lets `json: true` in config turn on JSON output when
// the flag wasn't given explicitly.
func applyConfigOverrides(cmd *cobra.Command) {
	if !cmd.Flags().Changed("json") && config.GetBool(config.KeyJSON) {
		jsonOutput = true
	}
	cmdCtx.JSONOutput = jsonOutput
}

func setupTelemetry() {
	if err := telemetry.Init(getRootContext(), "aitri", Version); err != nil {
		debug.Logf("telemetry: %v\n", err)
	}
}

func main() {
	if name := os.Getenv("AITRI_NAME"); name != "" {
		rootCmd.Use = name
	}

	// Phase one: the command itself decides the exit code.
	executed, err := rootCmd.ExecuteC()
	code := 0
	if err != nil {
		if jsonOutput {
			writeJSONError(err, "command_failed")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		code = 1
	}
	if code == 0 && cmdCtx != nil {
		code = cmdCtx.ExitCode
	}

	// Phase two: offer the next step. Only a dispatched child may change
	// the code of a successful run.
	if cmdCtx != nil {
		code = runAutoAdvance(getRootContext(), executed, code)
		if err := telemetry.Shutdown(context.Background()); err != nil {
			debug.Logf("telemetry: %v\n", err)
		}
		if cmdCtx.RootCancel != nil {
			cmdCtx.RootCancel()
		}
	}
	os.Exit(code)
}
