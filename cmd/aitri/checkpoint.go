package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aitri-dev/aitri/internal/checkpoint"
	"github.com/aitri-dev/aitri/internal/git"
	"github.com/aitri-dev/aitri/internal/timeparsing"
	"github.com/aitri-dev/aitri/internal/ui"
)

var checkpointCmd = &cobra.Command{
	Use:     "checkpoint",
	GroupID: "setup",
	Short:   "Commit and tag the workflow files now",
	Long: `Commit the managed workflow directories and tag the commit with an
aitri-checkpoint/ tag. Only the newest checkpoint tags are kept
(checkpoint.max, default 10). Mutating commands do this automatically.`,
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("feature")
		phase, _ := cmd.Flags().GetString("phase")
		p := getProject()
		res := p.Checkpoints.Auto(getRootContext(), checkpoint.Request{Label: name, Phase: phase})
		if jsonOutput {
			outputJSON(res)
		} else {
			reportCheckpoint(res)
		}
		if res.Reason.IsFailure() {
			exitCode(1)
		}
	},
}

var checkpointListCmd = &cobra.Command{
	Use:   "list",
	Short: "List checkpoint tags, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		since, _ := cmd.Flags().GetString("since")
		p := getProject()
		tags, err := p.Checkpoints.List(getRootContext())
		if err != nil {
			FatalError("%v", err)
		}
		if since != "" {
			cutoff, err := timeparsing.ParseSince(since, timeNow())
			if err != nil {
				FatalError("invalid --since: %v", err)
			}
			tags = tagsSince(tags, cutoff)
		}
		if jsonOutput {
			if tags == nil {
				tags = []git.Tag{}
			}
			outputJSON(tags)
			return
		}
		if len(tags) == 0 {
			fmt.Println("No checkpoints.")
			return
		}
		for _, t := range tags {
			fmt.Printf("%s  %s\n", t.Name, ui.RenderMuted(t.Created.Local().Format("2006-01-02 15:04:05")))
		}
	},
}

// tagsSince keeps tags created at or after cutoff.
func tagsSince(tags []git.Tag, cutoff time.Time) []git.Tag {
	var out []git.Tag
	for _, t := range tags {
		created := t.Created
		if created.IsZero() {
			if ts, ok := checkpoint.StampTime(t.Name); ok {
				created = ts
			}
		}
		if !created.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

func init() {
	checkpointCmd.Flags().StringP("feature", "f", "", "Feature to label the checkpoint with (default: project name)")
	checkpointCmd.Flags().String("phase", "manual", "Phase recorded in the commit message and tag")
	checkpointListCmd.Flags().String("since", "", "Only checkpoints newer than this (e.g. 2h, 3d, yesterday, 2024-01-15)")

	checkpointCmd.AddCommand(checkpointListCmd)
	rootCmd.AddCommand(checkpointCmd)
}
