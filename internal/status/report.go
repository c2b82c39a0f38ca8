// Package status builds the project status report: every feature with its
// derived state, the feature to work on next and the command that moves
// it forward. Reports are computed fresh on every call and never stored.
package status

import (
	"context"
	"fmt"

	"github.com/aitri-dev/aitri/internal/checkpoint"
	"github.com/aitri-dev/aitri/internal/feature"
	"github.com/aitri-dev/aitri/internal/paths"
)

// NextStep names the recommended action.
type NextStep string

const (
	StepDraft     NextStep = "draft"
	StepApprove   NextStep = "approve"
	StepPlan      NextStep = "plan"
	StepGo        NextStep = "go"
	StepBuild     NextStep = "build"
	StepWriteCode NextStep = "write_code"
	StepDeliver   NextStep = "deliver"
	StepStatus    NextStep = "status"
	StepComplete  NextStep = "complete"
)

// Confidence says how much the recommendation can be trusted.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ResumeDetector reports whether the last commit was a checkpoint.
// *checkpoint.Manager implements it.
type ResumeDetector interface {
	DetectResume(ctx context.Context) checkpoint.Resume
}

// Options selects what Build reports on.
type Options struct {
	// Feature pins the report to one feature. Empty picks one.
	Feature  string
	Registry *feature.Registry
	Queue    []feature.QueueEntry
	// Checkpoints is optional; nil reports no resume point.
	Checkpoints ResumeDetector
	// Program prefixes recommended commands. Defaults to "aitri".
	Program string
}

// Report is the status of a project at one instant.
type Report struct {
	Root               string            `json:"root"`
	Feature            string            `json:"feature,omitempty"`
	State              feature.State     `json:"state,omitempty"`
	NextStep           NextStep          `json:"nextStep"`
	NextStepMessage    string            `json:"nextStepMessage"`
	RecommendedCommand string            `json:"recommendedCommand,omitempty"`
	Confidence         Confidence        `json:"confidence"`
	Checkpoint         checkpoint.Resume `json:"checkpoint"`
	Summary            feature.Summary   `json:"summary"`
	Features           []feature.Feature `json:"features"`
}

// Build computes the report.
func Build(ctx context.Context, opts Options) (Report, error) {
	if opts.Registry == nil {
		return Report{}, fmt.Errorf("status: registry is required")
	}
	program := opts.Program
	if program == "" {
		program = "aitri"
	}
	resolver := opts.Registry.Resolver()

	features, err := opts.Registry.ScanAll()
	if err != nil {
		return Report{}, err
	}
	r := Report{
		Root:     resolver.Layout().Root,
		Summary:  feature.Summarize(features),
		Features: features,
	}
	if r.Features == nil {
		r.Features = []feature.Feature{}
	}
	if opts.Checkpoints != nil {
		r.Checkpoint = opts.Checkpoints.DetectResume(ctx)
	}

	var target feature.Feature
	found := false
	if opts.Feature != "" {
		if err := paths.ValidateFeatureName(opts.Feature); err != nil {
			return Report{}, err
		}
		target = resolver.Resolve(opts.Feature)
		// A delivered feature has nothing left; recommend globally instead.
		found = target.State != feature.StateDelivered
	}
	if !found {
		if len(features) == 0 {
			r.NextStep = StepDraft
			r.NextStepMessage = fmt.Sprintf("No features yet. Create a draft spec with: %s draft --feature <name>", program)
			r.Confidence = confidence(feature.StateDraft, r.Checkpoint)
			return r, nil
		}
		target, found = feature.SelectNext(features, opts.Queue)
	}
	if !found {
		r.NextStep = StepComplete
		r.NextStepMessage = fmt.Sprintf("All %d features are delivered.", r.Summary.Total)
		r.Confidence = confidence(feature.StateDelivered, r.Checkpoint)
		return r, nil
	}

	r.Feature = target.Name
	r.State = target.State
	r.NextStep, r.NextStepMessage = recommend(resolver, target)
	r.RecommendedCommand = commandFor(program, r.NextStep, target)
	r.Confidence = confidence(target.State, r.Checkpoint)
	return r, nil
}

// recommend refines the state's next command with what is already on disk.
func recommend(res *feature.Resolver, f feature.Feature) (NextStep, string) {
	switch f.State {
	case feature.StateDraft:
		return StepApprove, fmt.Sprintf("Draft spec for %s is ready for review. Approve it to lock the requirements.", f.Name)
	case feature.StateApproved:
		if res.HasPlan(f.Name) {
			return StepGo, fmt.Sprintf("Plan for %s is ready. Authorize implementation.", f.Name)
		}
		return StepPlan, fmt.Sprintf("Spec for %s is approved. Generate the implementation plan.", f.Name)
	case feature.StateImplementation:
		if res.HasBuildMarker(f.Name) {
			return StepWriteCode, fmt.Sprintf("Scaffolding for %s is in place. Write the code and make the tests pass.", f.Name)
		}
		return StepBuild, fmt.Sprintf("Implementation of %s is authorized. Scaffold the build.", f.Name)
	case feature.StateDeliverPending:
		return StepDeliver, fmt.Sprintf("%s is waiting for a delivery decision.", f.Name)
	case feature.StateBlocked:
		return StepGo, fmt.Sprintf("%s is on HOLD. Address the feedback, then re-authorize implementation.", f.Name)
	case feature.StateDelivered:
		return StepComplete, fmt.Sprintf("%s is delivered.", f.Name)
	default:
		return StepStatus, fmt.Sprintf("No spec found for %s. Check the feature name.", f.Name)
	}
}

// commandFor renders the command for step. write_code is done by hand, so
// its command is the delivery that follows it.
func commandFor(program string, step NextStep, f feature.Feature) string {
	switch step {
	case StepComplete:
		return ""
	case StepStatus:
		return program + " status"
	case StepWriteCode:
		return fmt.Sprintf("%s deliver --feature %s", program, f.Name)
	default:
		return fmt.Sprintf("%s %s --feature %s", program, step, f.Name)
	}
}

func confidence(s feature.State, resume checkpoint.Resume) Confidence {
	switch {
	case s == feature.StateUnknown:
		return ConfidenceLow
	case resume.Detected:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}
