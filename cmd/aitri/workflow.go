package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/aitri-dev/aitri/internal/config"
	"github.com/aitri-dev/aitri/internal/feature"
	"github.com/aitri-dev/aitri/internal/ui"
)

// stepResult is the --json output of a lifecycle command.
type stepResult struct {
	Feature string        `json:"feature,omitempty"`
	State   feature.State `json:"state,omitempty"`
	Path    string        `json:"path,omitempty"`
	Created []string      `json:"created,omitempty"`
}

var initCmd = &cobra.Command{
	Use:         "init",
	GroupID:     "setup",
	Short:       "Create .aitri/config.yaml and the workflow directories",
	Annotations: mutating(),
	Run: func(cmd *cobra.Command, args []string) {
		p := getProject()
		created, cfgCreated, err := initProject(p.Layout)
		if err != nil {
			FatalError("%v", err)
		}
		if cfgCreated {
			created = append([]string{filepath.Join(p.Layout.Root, config.DirName, config.FileName)}, created...)
		}
		if jsonOutput {
			outputJSON(stepResult{Path: p.Layout.Root, Created: created})
			return
		}
		if len(created) == 0 {
			fmt.Printf("%s Project already initialized at %s\n", ui.RenderInfoIcon(), p.Layout.Root)
			return
		}
		fmt.Printf("%s Initialized aitri in %s\n", ui.RenderPassIcon(), p.Layout.Root)
		for _, c := range created {
			fmt.Printf("  %s\n", ui.RenderMuted(relPath(p.Layout.Root, c)))
		}
	},
}

var draftCmd = &cobra.Command{
	Use:         "draft",
	GroupID:     "workflow",
	Short:       "Create a draft spec for a new feature",
	Annotations: mutating(),
	Run: func(cmd *cobra.Command, args []string) {
		name := featureFlag(cmd)
		idea, _ := cmd.Flags().GetString("idea")
		p := getProject()
		path, err := writeDraft(p.Resolver(), name, idea)
		finishStep(p, name, path, "Draft spec created", err)
	},
}

var approveCmd = &cobra.Command{
	Use:         "approve",
	GroupID:     "workflow",
	Short:       "Approve a draft spec and seed its backlog and tests",
	Annotations: mutating(),
	Run: func(cmd *cobra.Command, args []string) {
		name := featureFlag(cmd)
		p := getProject()
		path, err := approveDraft(p.Resolver(), name)
		finishStep(p, name, path, "Spec approved", err)
	},
}

var planCmd = &cobra.Command{
	Use:         "plan",
	GroupID:     "workflow",
	Short:       "Write the discovery notes and implementation plan",
	Annotations: mutating(),
	Run: func(cmd *cobra.Command, args []string) {
		name := featureFlag(cmd)
		p := getProject()
		path, err := writePlan(p.Resolver(), name)
		finishStep(p, name, path, "Plan written", err)
	},
}

var goCmd = &cobra.Command{
	Use:         "go",
	GroupID:     "workflow",
	Short:       "Authorize implementation of a planned feature",
	Annotations: mutating(),
	Run: func(cmd *cobra.Command, args []string) {
		name := featureFlag(cmd)
		p := getProject()
		path, err := authorizeGo(p.Resolver(), name)
		finishStep(p, name, path, "Implementation authorized", err)
	},
}

var buildCmd = &cobra.Command{
	Use:         "build",
	GroupID:     "workflow",
	Short:       "Record that implementation scaffolding is in place",
	Annotations: mutating(),
	Run: func(cmd *cobra.Command, args []string) {
		name := featureFlag(cmd)
		p := getProject()
		path, err := scaffoldBuild(p.Resolver(), name)
		finishStep(p, name, path, "Build scaffolded", err)
	},
}

var deliverCmd = &cobra.Command{
	Use:     "deliver",
	GroupID: "workflow",
	Short:   "Record the delivery decision (SHIP, HOLD or pending)",
	Long: `Record the delivery decision for an implemented feature.

SHIP marks the feature delivered. HOLD blocks it until implementation is
re-authorized with 'go'. pending records that delivery is under review.`,
	Annotations: mutating(),
	Run: func(cmd *cobra.Command, args []string) {
		name := featureFlag(cmd)
		raw, _ := cmd.Flags().GetString("decision")
		releaseTag, _ := cmd.Flags().GetString("release-tag")
		notes, _ := cmd.Flags().GetString("notes")

		if raw == "" {
			raw = promptDecision()
		}
		decision, err := parseDecision(raw)
		if err != nil {
			FatalError("%v", err)
		}

		p := getProject()
		rec, err := recordDelivery(p.Resolver(), name, deliverOptions{Decision: decision, ReleaseTag: releaseTag, Notes: notes})
		msg := "Delivery recorded as pending"
		switch rec.Decision {
		case feature.DecisionShip:
			msg = "Shipped"
		case feature.DecisionHold:
			msg = "Put on HOLD"
		}
		finishStep(p, name, p.Layout.Delivery(name), msg, err)
	},
}

// promptDecision asks for a decision when none was given, or exits when
// prompting isn't possible.
func promptDecision() string {
	if jsonOutput || nonInteractive || yesFlag || !ui.IsTerminal() || !ui.StdinIsTerminal() {
		FatalErrorWithHint("--decision is required", "Pass --decision SHIP, --decision HOLD or --decision pending")
	}
	choice := "SHIP"
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Delivery decision").
				Options(
					huh.NewOption("SHIP - mark delivered", "SHIP"),
					huh.NewOption("HOLD - send back for rework", "HOLD"),
					huh.NewOption("pending - still under review", "pending"),
				).
				Value(&choice),
		),
	).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(os.Stderr, "Delivery canceled.")
			os.Exit(1)
		}
		FatalError("form error: %v", err)
	}
	return choice
}

// featureFlag reads the required --feature flag.
func featureFlag(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("feature")
	if name == "" {
		FatalErrorWithHint("--feature is required", fmt.Sprintf("Run '%s %s --feature <name>'", program(), cmd.Name()))
	}
	return name
}

// finishStep reports the outcome of a lifecycle command.
func finishStep(p *Project, name, path, done string, err error) {
	if err != nil {
		var se *stateError
		if errors.As(err, &se) && se.Hint != "" && !jsonOutput {
			FatalErrorWithHint(err.Error(), se.Hint)
		}
		FatalError("%v", err)
	}
	setFeature(name)
	state := p.Resolver().ResolveState(name)
	if jsonOutput {
		outputJSON(stepResult{Feature: name, State: state, Path: path})
		return
	}
	fmt.Printf("%s %s: %s\n", ui.RenderPassIcon(), done, ui.RenderAccent(name))
	fmt.Printf("  %s %s\n", ui.RenderMuted("state"), ui.RenderState(string(state)))
	if path != "" {
		fmt.Printf("  %s %s\n", ui.RenderMuted("file "), relPath(p.Layout.Root, path))
	}
}

func init() {
	for _, c := range []*cobra.Command{draftCmd, approveCmd, planCmd, goCmd, buildCmd, deliverCmd} {
		c.Flags().StringP("feature", "f", "", "Feature name")
	}
	draftCmd.Flags().String("idea", "", "One-line idea to seed the draft's context")
	deliverCmd.Flags().String("decision", "", "Delivery decision: SHIP, HOLD or pending")
	deliverCmd.Flags().String("release-tag", "", "Release tag to record with a SHIP")
	deliverCmd.Flags().String("notes", "", "Notes for the delivery report (and feedback on HOLD)")

	rootCmd.AddCommand(initCmd, draftCmd, approveCmd, planCmd, goCmd, buildCmd, deliverCmd)
}
