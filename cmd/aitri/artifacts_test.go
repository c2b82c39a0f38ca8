package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aitri-dev/aitri/internal/advance"
	"github.com/aitri-dev/aitri/internal/checkpoint"
	"github.com/aitri-dev/aitri/internal/config"
	"github.com/aitri-dev/aitri/internal/feature"
	"github.com/aitri-dev/aitri/internal/git"
	"github.com/aitri-dev/aitri/internal/paths"
	"github.com/aitri-dev/aitri/internal/status"
)

func newTestResolver(t *testing.T) *feature.Resolver {
	t.Helper()
	return feature.NewResolver(paths.New(t.TempDir(), paths.Overrides{}), nil)
}

func fixClock(t *testing.T) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = old })
}

func TestLifecycleWalk(t *testing.T) {
	fixClock(t)
	res := newTestResolver(t)
	layout := res.Layout()

	path, err := writeDraft(res, "login", "Users sign in with email")
	require.NoError(t, err)
	assert.Equal(t, layout.DraftSpec("login"), path)
	assert.Equal(t, feature.StateDraft, res.ResolveState("login"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Users sign in with email")

	_, err = approveDraft(res, "login")
	require.NoError(t, err)
	assert.Equal(t, feature.StateApproved, res.ResolveState("login"))
	assert.NoFileExists(t, layout.DraftSpec("login"))
	assert.FileExists(t, layout.BacklogFile("login"))
	assert.FileExists(t, layout.TestsFile("login"))

	_, err = authorizeGo(res, "login")
	require.Error(t, err, "go without a plan")

	_, err = writePlan(res, "login")
	require.NoError(t, err)
	assert.True(t, res.HasPlan("login"))
	assert.FileExists(t, layout.Discovery("login"))

	_, err = authorizeGo(res, "login")
	require.NoError(t, err)
	assert.Equal(t, feature.StateImplementation, res.ResolveState("login"))

	_, err = scaffoldBuild(res, "login")
	require.NoError(t, err)
	assert.True(t, res.HasBuildMarker("login"))

	rec, err := recordDelivery(res, "login", deliverOptions{Decision: feature.DecisionNone})
	require.NoError(t, err)
	assert.Empty(t, rec.DeliveredAt)
	assert.Equal(t, feature.StateDeliverPending, res.ResolveState("login"))

	rec, err = recordDelivery(res, "login", deliverOptions{Decision: feature.DecisionShip, ReleaseTag: "v1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T09:30:00Z", rec.DeliveredAt)
	assert.Equal(t, feature.StateDelivered, res.ResolveState("login"))

	got := res.Resolve("login")
	assert.Equal(t, "2024-03-01T09:30:00Z", got.DeliveredAt)

	report, err := os.ReadFile(layout.DeliveryReport("login"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "Release tag: v1.0.0")
}

func TestHoldThenGoReauthorizes(t *testing.T) {
	res := newTestResolver(t)
	layout := res.Layout()
	_, err := writeDraft(res, "f", "")
	require.NoError(t, err)
	_, err = approveDraft(res, "f")
	require.NoError(t, err)
	_, err = writePlan(res, "f")
	require.NoError(t, err)
	_, err = authorizeGo(res, "f")
	require.NoError(t, err)

	_, err = recordDelivery(res, "f", deliverOptions{Decision: feature.DecisionHold, Notes: "error states missing"})
	require.NoError(t, err)
	assert.Equal(t, feature.StateBlocked, res.ResolveState("f"))
	fb, err := os.ReadFile(layout.Feedback("f"))
	require.NoError(t, err)
	assert.Contains(t, string(fb), "error states missing")

	_, err = authorizeGo(res, "f")
	require.NoError(t, err)
	assert.NoFileExists(t, layout.Delivery("f"))
	assert.Equal(t, feature.StateImplementation, res.ResolveState("f"))
}

func TestLifecycleRejectsWrongState(t *testing.T) {
	res := newTestResolver(t)

	_, err := approveDraft(res, "ghost")
	var se *stateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, feature.StateUnknown, se.State)
	assert.NotEmpty(t, se.Hint)

	_, err = writeDraft(res, "f", "")
	require.NoError(t, err)
	_, err = writeDraft(res, "f", "")
	assert.ErrorAs(t, err, &se, "duplicate draft")

	_, err = writePlan(res, "f")
	assert.ErrorAs(t, err, &se)
	_, err = scaffoldBuild(res, "f")
	assert.ErrorAs(t, err, &se)
	_, err = recordDelivery(res, "f", deliverOptions{Decision: feature.DecisionShip})
	assert.ErrorAs(t, err, &se)

	_, err = writeDraft(res, "../escape", "")
	assert.Error(t, err)
}

func TestApproveRejectsEmptyDraft(t *testing.T) {
	res := newTestResolver(t)
	path := res.Layout().DraftSpec("empty")
	require.NoError(t, writeFile(path, "  \n"))
	_, err := approveDraft(res, "empty")
	assert.ErrorContains(t, err, "empty")
	assert.FileExists(t, path)
}

func TestInitProject(t *testing.T) {
	config.ResetForTesting()
	layout := paths.New(t.TempDir(), paths.Overrides{})

	created, cfgCreated, err := initProject(layout)
	require.NoError(t, err)
	assert.True(t, cfgCreated)
	assert.Contains(t, created, layout.DraftsDir())
	assert.Contains(t, created, layout.Docs)
	assert.DirExists(t, layout.Tests)
	assert.FileExists(t, filepath.Join(layout.Root, config.DirName, config.FileName))

	created, cfgCreated, err = initProject(layout)
	require.NoError(t, err)
	assert.False(t, cfgCreated)
	assert.Empty(t, created)
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		in      string
		want    feature.Decision
		wantErr bool
	}{
		{"SHIP", feature.DecisionShip, false},
		{" ship ", feature.DecisionShip, false},
		{"hold", feature.DecisionHold, false},
		{"pending", feature.DecisionNone, false},
		{"Pending", feature.DecisionNone, false},
		{"maybe", feature.DecisionNone, true},
		{"", feature.DecisionNone, true},
	}
	for _, tt := range tests {
		got, err := parseDecision(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestTagsSince(t *testing.T) {
	cutoff := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	tags := []git.Tag{
		{Name: "aitri-checkpoint/a-draft-2024-01-03T00-00-00-000Z", Created: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{Name: "aitri-checkpoint/a-go-2024-01-02T12-00-00-000Z"},
		{Name: "aitri-checkpoint/a-init-2024-01-01T00-00-00-000Z", Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	got := tagsSince(tags, cutoff)
	require.Len(t, got, 2)
	assert.Equal(t, tags[0].Name, got[0].Name)
	assert.Equal(t, tags[1].Name, got[1].Name)
}

func TestSessionFor(t *testing.T) {
	config.ResetForTesting()
	initCommandContext()
	t.Cleanup(resetCommandContext)
	oldNoAdvance, oldYes := noAdvance, yesFlag
	t.Cleanup(func() { noAdvance, yesFlag = oldNoAdvance, oldYes })

	child := &cobra.Command{Use: "approve"}
	s := sessionFor(child, 0)
	assert.Equal(t, "approve", s.Command)
	assert.Equal(t, advance.ModeHuman, s.Mode)

	assert.Equal(t, "", sessionFor(rootCmd, 0).Command)
	assert.Equal(t, "", sessionFor(nil, 1).Command)

	noAdvance = true
	assert.True(t, sessionFor(child, 0).Disabled)
	noAdvance = false

	yesFlag = true
	assert.Equal(t, advance.GateAutoConfirm, advance.Gate(withTTY(sessionFor(child, 0))))
	yesFlag = false

	setMode(advance.ModeUI)
	assert.Equal(t, advance.ModeUI, sessionFor(child, 0).Mode)
}

func withTTY(s advance.Session) advance.Session {
	s.StdinTTY, s.StdoutTTY = true, true
	s.NonInteractive = false
	return s
}

func TestCheckpointLabel(t *testing.T) {
	initCommandContext()
	t.Cleanup(resetCommandContext)

	assert.Empty(t, checkpointLabel())
	assert.Equal(t, "checkpoint: project init", checkpoint.CommitMessage(checkpointLabel(), "init"))
	setFeature("login")
	assert.Equal(t, "login", checkpointLabel())
}

func TestAdvanceStatusFollowsExecutedFeature(t *testing.T) {
	config.ResetForTesting()
	initCommandContext()
	t.Cleanup(resetCommandContext)

	res := newTestResolver(t)
	for _, name := range []string{"alpha", "beta"} {
		_, err := writeDraft(res, name, "idea for "+name)
		require.NoError(t, err)
	}
	_, err := approveDraft(res, "beta")
	require.NoError(t, err)
	_, err = writePlan(res, "beta")
	require.NoError(t, err)
	_, err = authorizeGo(res, "beta")
	require.NoError(t, err)

	p := &Project{Layout: res.Layout(), Registry: feature.NewRegistry(res)}
	ctx := context.Background()

	// No feature recorded: the project-wide pick prefers the draft.
	r, err := advanceStatus(p)(ctx)
	require.NoError(t, err)
	assert.Equal(t, "aitri approve --feature alpha", r.RecommendedCommand)

	setFeature("beta")
	r, err = advanceStatus(p)(ctx)
	require.NoError(t, err)
	assert.Equal(t, "beta", r.Feature)
	assert.Equal(t, "aitri build --feature beta", r.RecommendedCommand)
}

func TestRenderStatus(t *testing.T) {
	var buf bytes.Buffer
	renderStatus(&buf, status.Report{
		Root:               "/proj",
		Feature:            "b",
		NextStep:           status.StepPlan,
		NextStepMessage:    "Spec for b is approved.",
		RecommendedCommand: "aitri plan --feature b",
		Confidence:         status.ConfidenceMedium,
		Checkpoint:         checkpoint.Resume{Detected: true, Commit: "abc1234", Message: "checkpoint: b approve"},
		Summary:            feature.Summary{Total: 2, Draft: 1, InProgress: 1},
		Features: []feature.Feature{
			{Name: "a", State: feature.StateDraft},
			{Name: "b", State: feature.StateApproved},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "2 features")
	assert.Contains(t, out, "aitri plan --feature b")
	assert.Contains(t, out, "abc1234")
	assert.Contains(t, out, "confidence: medium")
	assert.Contains(t, out, "> ")
}

func TestIsArtifactEvent(t *testing.T) {
	assert.True(t, isArtifactEvent(fsnotify.Event{Name: "/p/specs/drafts/a.md", Op: fsnotify.Write}))
	assert.True(t, isArtifactEvent(fsnotify.Event{Name: "/p/docs/delivery/a.json", Op: fsnotify.Remove}))
	assert.False(t, isArtifactEvent(fsnotify.Event{Name: "/p/specs/drafts/a.md", Op: fsnotify.Chmod}))
	assert.False(t, isArtifactEvent(fsnotify.Event{Name: "/p/specs/drafts/.a.md.swp", Op: fsnotify.Write}))
	assert.False(t, isArtifactEvent(fsnotify.Event{Name: "/p/specs/drafts/a.md~", Op: fsnotify.Create}))
}

func TestMutatingAnnotations(t *testing.T) {
	for _, c := range []*cobra.Command{initCmd, draftCmd, approveCmd, planCmd, goCmd, buildCmd, deliverCmd} {
		assert.True(t, isMutating(c), c.Name())
	}
	for _, c := range []*cobra.Command{statusCmd, featuresCmd, nextCmd, resumeCmd, checkpointCmd, checkpointListCmd, mcpCmd, versionCmd} {
		assert.False(t, isMutating(c), c.Name())
	}
}

func TestVersionString(t *testing.T) {
	v := versionInfo{Version: "1.2.3", Build: "release"}
	assert.Equal(t, "aitri version 1.2.3 (release)", v.String())

	v.Commit = "0123456789abcdef"
	v.Dirty = true
	assert.Equal(t, "aitri version 1.2.3 (release: 0123456789ab-dirty)", v.String())
}
