package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aitri-dev/aitri/internal/config"
	"github.com/aitri-dev/aitri/internal/feature"
	"github.com/aitri-dev/aitri/internal/fsutil"
	"github.com/aitri-dev/aitri/internal/paths"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// stateError reports that a command does not apply to a feature's state.
type stateError struct {
	Feature string
	State   feature.State
	Want    string
	Hint    string
}

func (e *stateError) Error() string {
	return fmt.Sprintf("%s is %s; %s", e.Feature, e.State, e.Want)
}

// marker is the JSON body of the go and build markers.
type marker struct {
	Feature      string `json:"feature"`
	AuthorizedAt string `json:"authorizedAt,omitempty"`
	BuiltAt      string `json:"builtAt,omitempty"`
}

func stamp() string {
	return timeNow().UTC().Format(time.RFC3339)
}

// initProject writes .aitri/config.yaml and the logical root directories.
// It returns the directories it created.
func initProject(layout paths.Layout) (created []string, configCreated bool, err error) {
	cfg := config.LoadLocalConfig(layout.Root)
	if cfg.Paths == (config.LocalPaths{}) {
		cfg = config.DefaultLocalConfig()
	}
	configCreated, err = config.WriteLocalConfig(layout.Root, cfg)
	if err != nil {
		return nil, false, err
	}
	for _, dir := range []string{layout.DraftsDir(), layout.ApprovedDir(), layout.Backlog, layout.Tests, layout.Docs} {
		if _, statErr := os.Stat(dir); statErr == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return created, configCreated, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		created = append(created, dir)
	}
	return created, configCreated, nil
}

// writeDraft creates the draft spec for a new feature.
func writeDraft(res *feature.Resolver, name, idea string) (string, error) {
	if err := paths.ValidateFeatureName(name); err != nil {
		return "", err
	}
	if state := res.ResolveState(name); state != feature.StateUnknown {
		return "", &stateError{Feature: name, State: state, Want: "a draft already exists or was approved",
			Hint: fmt.Sprintf("Run '%s status --feature %s' to see where it stands", program(), name)}
	}
	layout := res.Layout()
	path := layout.DraftSpec(name)
	if err := writeNew(path, draftTemplate(name, idea)); err != nil {
		return "", err
	}
	return path, nil
}

// approveDraft promotes the draft spec to approved and seeds the backlog
// and test documents.
func approveDraft(res *feature.Resolver, name string) (string, error) {
	if err := paths.ValidateFeatureName(name); err != nil {
		return "", err
	}
	if state := res.ResolveState(name); state != feature.StateDraft {
		return "", &stateError{Feature: name, State: state, Want: "only a draft can be approved",
			Hint: fmt.Sprintf("Create one with '%s draft --feature %s'", program(), name)}
	}
	layout := res.Layout()
	draft := layout.DraftSpec(name)
	content, err := os.ReadFile(draft) // #nosec G304 - path derived from validated feature name
	if err != nil {
		return "", fmt.Errorf("failed to read draft: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return "", fmt.Errorf("draft spec %s is empty", draft)
	}

	approved := layout.ApprovedSpec(name)
	if err := writeFile(approved, string(content)); err != nil {
		return "", err
	}
	if err := os.Remove(draft); err != nil {
		return "", fmt.Errorf("failed to remove draft: %w", err)
	}
	if err := writeIfMissing(layout.BacklogFile(name), backlogTemplate(name)); err != nil {
		return "", err
	}
	if err := writeIfMissing(layout.TestsFile(name), testsTemplate(name)); err != nil {
		return "", err
	}
	return approved, nil
}

// writePlan creates the discovery notes and the implementation plan.
func writePlan(res *feature.Resolver, name string) (string, error) {
	if err := paths.ValidateFeatureName(name); err != nil {
		return "", err
	}
	if state := res.ResolveState(name); state != feature.StateApproved {
		return "", &stateError{Feature: name, State: state, Want: "only an approved spec can be planned",
			Hint: fmt.Sprintf("Approve it first with '%s approve --feature %s'", program(), name)}
	}
	layout := res.Layout()
	if err := writeIfMissing(layout.Discovery(name), discoveryTemplate(name)); err != nil {
		return "", err
	}
	path := layout.Plan(name)
	if err := writeFile(path, planTemplate(name, relPath(layout.Root, layout.ApprovedSpec(name)))); err != nil {
		return "", err
	}
	return path, nil
}

// authorizeGo writes the go marker. A HOLD delivery record is cleared so
// the feature returns to implementation.
func authorizeGo(res *feature.Resolver, name string) (string, error) {
	if err := paths.ValidateFeatureName(name); err != nil {
		return "", err
	}
	state := res.ResolveState(name)
	if state != feature.StateApproved && state != feature.StateBlocked {
		return "", &stateError{Feature: name, State: state, Want: "go needs an approved or blocked feature",
			Hint: fmt.Sprintf("Run '%s status --feature %s'", program(), name)}
	}
	if !res.HasPlan(name) {
		return "", &stateError{Feature: name, State: state, Want: "there is no implementation plan yet",
			Hint: fmt.Sprintf("Run '%s plan --feature %s' first", program(), name)}
	}
	layout := res.Layout()
	if state == feature.StateBlocked {
		if err := os.Remove(layout.Delivery(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to clear HOLD record: %w", err)
		}
	}
	path := layout.GoMarker(name)
	if err := writeJSON(path, marker{Feature: name, AuthorizedAt: stamp()}); err != nil {
		return "", err
	}
	return path, nil
}

// scaffoldBuild writes the build marker for an authorized feature.
func scaffoldBuild(res *feature.Resolver, name string) (string, error) {
	if err := paths.ValidateFeatureName(name); err != nil {
		return "", err
	}
	if state := res.ResolveState(name); state != feature.StateImplementation {
		return "", &stateError{Feature: name, State: state, Want: "build needs an authorized implementation",
			Hint: fmt.Sprintf("Authorize it with '%s go --feature %s'", program(), name)}
	}
	path := res.Layout().BuildMarker(name)
	if err := writeJSON(path, marker{Feature: name, BuiltAt: stamp()}); err != nil {
		return "", err
	}
	return path, nil
}

// deliverOptions are the inputs of a delivery decision.
type deliverOptions struct {
	Decision   feature.Decision
	ReleaseTag string
	Notes      string
}

// recordDelivery writes the delivery record and the human report. SHIP
// stamps deliveredAt; HOLD also writes the feedback notes.
func recordDelivery(res *feature.Resolver, name string, opts deliverOptions) (feature.DeliveryRecord, error) {
	if err := paths.ValidateFeatureName(name); err != nil {
		return feature.DeliveryRecord{}, err
	}
	state := res.ResolveState(name)
	if state != feature.StateImplementation && state != feature.StateDeliverPending {
		return feature.DeliveryRecord{}, &stateError{Feature: name, State: state, Want: "deliver needs an authorized implementation",
			Hint: fmt.Sprintf("Run '%s status --feature %s'", program(), name)}
	}

	rec := feature.DeliveryRecord{Feature: name, Decision: opts.Decision, ReleaseTag: opts.ReleaseTag}
	if rec.Decision == feature.DecisionShip {
		rec.DeliveredAt = stamp()
	}
	layout := res.Layout()
	if err := writeJSON(layout.Delivery(name), rec); err != nil {
		return rec, err
	}
	if err := writeFile(layout.DeliveryReport(name), deliveryReportTemplate(rec, opts.Notes)); err != nil {
		return rec, err
	}
	if rec.Decision == feature.DecisionHold && strings.TrimSpace(opts.Notes) != "" {
		if err := writeFile(layout.Feedback(name), fmt.Sprintf("# Feedback: %s\n\n%s\n", name, opts.Notes)); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// parseDecision accepts SHIP, HOLD and pending in any case.
func parseDecision(s string) (feature.Decision, error) {
	if strings.EqualFold(strings.TrimSpace(s), "pending") {
		return feature.DecisionNone, nil
	}
	d := feature.NormalizeDecision(s)
	if d == feature.DecisionNone {
		return d, fmt.Errorf("invalid decision %q (want SHIP, HOLD or pending)", s)
	}
	return d, nil
}

func writeNew(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return writeFile(path, content)
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return writeFile(path, content)
}

func writeFile(path, content string) error {
	return fsutil.WriteFileAtomic(path, []byte(content), 0o644) // #nosec G306 - artifacts are meant to be committed
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return writeFile(path, string(data)+"\n")
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
