package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/aitri-dev/aitri/internal/advance"
	"github.com/aitri-dev/aitri/internal/config"
	"github.com/aitri-dev/aitri/internal/debug"
	"github.com/aitri-dev/aitri/internal/status"
	"github.com/aitri-dev/aitri/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "views",
	Short:   "Show every feature's state and the recommended next step",
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("feature")
		dashboard, _ := cmd.Flags().GetBool("ui")
		watch, _ := cmd.Flags().GetBool("watch")
		if dashboard {
			setMode(advance.ModeUI)
		}

		p := getProject()
		ctx := getRootContext()
		if watch {
			if jsonOutput {
				FatalError("--watch cannot be combined with --json")
			}
			// Watching is its own session; nothing to advance afterwards.
			setMode(advance.ModeUI)
			watchStatus(ctx, p, name, dashboard)
			return
		}
		showStatus(ctx, p, name, dashboard)
	},
}

func showStatus(ctx context.Context, p *Project, name string, dashboard bool) {
	defer debug.Elapsed("status", time.Now())
	r, err := p.Report(ctx, name)
	if err != nil {
		FatalError("%v", err)
	}
	switch {
	case jsonOutput:
		outputJSON(r)
	case dashboard:
		fmt.Print(ui.RenderMarkdown(r.Markdown()))
	default:
		renderStatus(os.Stdout, r)
	}
}

// renderStatus prints the plain report.
func renderStatus(w io.Writer, r status.Report) {
	fmt.Fprintf(w, "%s %s\n", ui.RenderCategory("Project"), r.Root)
	fmt.Fprintf(w, "%d features: %s delivered, %s in progress, %s draft\n\n",
		r.Summary.Total,
		ui.RenderPass(fmt.Sprint(r.Summary.Delivered)),
		ui.RenderAccent(fmt.Sprint(r.Summary.InProgress)),
		ui.RenderMuted(fmt.Sprint(r.Summary.Draft)))

	if len(r.Features) > 0 {
		width := 0
		for _, f := range r.Features {
			if len(f.Name) > width {
				width = len(f.Name)
			}
		}
		for _, f := range r.Features {
			marker := " "
			if f.Name == r.Feature {
				marker = ">"
			}
			line := fmt.Sprintf("%s %s %-*s  %s", marker, ui.StateIcon(string(f.State)), width, f.Name, ui.RenderState(string(f.State)))
			if f.DeliveredAt != "" {
				line += " " + ui.RenderMuted(f.DeliveredAt)
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s %s\n", ui.RenderCategory("Next:"), r.NextStepMessage)
	if r.RecommendedCommand != "" {
		fmt.Fprintf(w, "  %s\n", ui.RenderCommand(r.RecommendedCommand))
	}
	if r.Checkpoint.Detected {
		fmt.Fprintf(w, "\n%s Last commit %s is a checkpoint (%s). Resume from it or continue.\n",
			ui.RenderWarnIcon(), r.Checkpoint.Commit, r.Checkpoint.Message)
	}
	if r.Confidence != status.ConfidenceHigh {
		fmt.Fprintf(w, "%s\n", ui.RenderMuted("confidence: "+string(r.Confidence)))
	}
}

// watchStatus re-renders the status whenever an artifact changes, until
// the context is canceled.
func watchStatus(ctx context.Context, p *Project, name string, dashboard bool) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		FatalError("creating watcher: %v", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range []string{p.Layout.Specs, p.Layout.Backlog, p.Layout.Tests, p.Layout.Docs} {
		if err := addWatchTree(watcher, root); err != nil {
			debug.Logf("watch: %v\n", err)
		}
	}
	if len(watcher.WatchList()) == 0 {
		FatalErrorWithHint("no workflow directories to watch", fmt.Sprintf("Run '%s init' first", program()))
	}

	render := func() {
		if ui.IsTerminal() {
			fmt.Print("\033[H\033[2J")
		}
		showStatus(ctx, p, name, dashboard)
		fmt.Fprintf(os.Stderr, "\nWatching for changes... (Press Ctrl+C to exit)\n")
	}
	render()

	debounceDelay := config.GetDuration(config.KeyWatchDebounce)
	if debounceDelay <= 0 {
		debounceDelay = 500 * time.Millisecond
	}
	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			fmt.Fprintf(os.Stderr, "\nStopped watching.\n")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchTree(watcher, event.Name)
				}
			}
			if !isArtifactEvent(event) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, render)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}

// addWatchTree watches dir and every directory below it.
func addWatchTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// isArtifactEvent filters editor noise: swap files, backups, chmod-only events.
func isArtifactEvent(e fsnotify.Event) bool {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) && !e.Has(fsnotify.Remove) && !e.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(e.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	return true
}

var featuresCmd = &cobra.Command{
	Use:     "features",
	GroupID: "views",
	Short:   "List features and their states",
	Run: func(cmd *cobra.Command, args []string) {
		noPager, _ := cmd.Flags().GetBool("no-pager")
		p := getProject()
		features, err := p.Registry.ScanAll()
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			outputJSON(features)
			return
		}
		if len(features) == 0 {
			fmt.Printf("No features yet. Create one with: %s\n", ui.RenderCommand(program()+" draft --feature <name>"))
			return
		}
		var b strings.Builder
		for _, f := range features {
			fmt.Fprintf(&b, "%s %s  %s", ui.StateIcon(string(f.State)), f.Name, ui.RenderState(string(f.State)))
			if f.DeliveredAt != "" {
				fmt.Fprintf(&b, " %s", ui.RenderMuted(f.DeliveredAt))
			}
			fmt.Fprintf(&b, "\n    %s\n", ui.RenderMuted(relPath(p.Layout.Root, f.SpecFile)))
		}
		if err := ui.ToPager(b.String(), ui.PagerOptions{NoPager: noPager}); err != nil {
			FatalError("%v", err)
		}
	},
}

var nextCmd = &cobra.Command{
	Use:     "next",
	GroupID: "views",
	Short:   "Print only the recommended next command",
	Run: func(cmd *cobra.Command, args []string) {
		p := getProject()
		r, err := p.Report(getRootContext(), "")
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{
				"feature":            r.Feature,
				"nextStep":           r.NextStep,
				"nextStepMessage":    r.NextStepMessage,
				"recommendedCommand": r.RecommendedCommand,
				"confidence":         r.Confidence,
			})
			return
		}
		if r.RecommendedCommand == "" {
			fmt.Println(r.NextStepMessage)
			return
		}
		fmt.Println(r.RecommendedCommand)
	},
}

var resumeCmd = &cobra.Command{
	Use:     "resume",
	GroupID: "views",
	Short:   "Report whether the last commit is a checkpoint to resume from",
	Run: func(cmd *cobra.Command, args []string) {
		p := getProject()
		r := p.Checkpoints.DetectResume(getRootContext())
		if jsonOutput {
			outputJSON(r)
			return
		}
		if !r.Detected {
			fmt.Println("No checkpoint detected.")
			return
		}
		fmt.Printf("%s Last commit %s is a checkpoint: %s\n", ui.RenderWarnIcon(), r.Commit, r.Message)
		fmt.Printf("  Continue with: %s\n", ui.RenderCommand(program()+" status"))
	},
}

func init() {
	statusCmd.Flags().StringP("feature", "f", "", "Report on one feature")
	statusCmd.Flags().Bool("ui", false, "Render the status as a markdown dashboard")
	statusCmd.Flags().BoolP("watch", "w", false, "Re-render when workflow files change")
	featuresCmd.Flags().Bool("no-pager", false, "Disable pager output")

	rootCmd.AddCommand(statusCmd, featuresCmd, nextCmd, resumeCmd)
}
