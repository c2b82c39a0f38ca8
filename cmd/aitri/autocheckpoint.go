package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aitri-dev/aitri/internal/checkpoint"
	"github.com/aitri-dev/aitri/internal/debug"
	"github.com/aitri-dev/aitri/internal/ui"
)

// runAutoCheckpoint checkpoints the managed paths after a successful
// mutating command. It is best effort: the outcome is reported and the
// exit code is never changed.
func runAutoCheckpoint(ctx context.Context, cmd *cobra.Command) {
	if noCheckpoint {
		debug.Logf("checkpoint: skipped by --no-checkpoint\n")
		return
	}
	p := getProject()
	res := p.Checkpoints.Auto(ctx, checkpoint.Request{
		Label: checkpointLabel(),
		Phase: cmd.Name(),
	})
	reportCheckpoint(res)
}

// checkpointLabel is the feature the command touched. Empty labels the
// checkpoint "project".
func checkpointLabel() string {
	if cmdCtx != nil {
		return cmdCtx.Feature
	}
	return ""
}

// reportCheckpoint prints a checkpoint outcome to stderr so stdout stays
// machine-readable.
func reportCheckpoint(res checkpoint.Result) {
	switch {
	case res.Performed:
		if !debug.IsQuiet() {
			fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderPassIcon(), res.Message())
		}
		if res.TagError != "" {
			WarnError("checkpoint tag not created: %s", res.TagError)
		}
		for _, msg := range res.PruneErrors {
			WarnError("failed to prune checkpoint: %s", msg)
		}
	case res.Reason.IsFailure():
		WarnError("%s", res.Message())
		if res.Detail != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", ui.RenderMuted(res.Detail))
		}
	case res.Reason == checkpoint.ReasonDisabled:
		debug.Logf("%s\n", res.Message())
	default:
		if !debug.IsQuiet() {
			fmt.Fprintf(os.Stderr, "%s\n", ui.RenderMuted(res.Message()))
		}
	}
}
