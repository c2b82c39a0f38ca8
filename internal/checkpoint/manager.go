package checkpoint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aitri-dev/aitri/internal/debug"
	"github.com/aitri-dev/aitri/internal/git"
	"github.com/aitri-dev/aitri/internal/paths"
	"github.com/aitri-dev/aitri/internal/telemetry"
)

const scopeName = "github.com/aitri-dev/aitri/checkpoint"

// VCS is the subset of git the manager drives. *git.Repo implements it.
type VCS interface {
	IsInsideWorkTree(ctx context.Context) bool
	Add(ctx context.Context, paths ...string) error
	StagedFiles(ctx context.Context) ([]string, error)
	Commit(ctx context.Context, message string) error
	CreateTag(ctx context.Context, name, ref string) error
	ListTags(ctx context.Context, pattern string) ([]git.Tag, error)
	DeleteTag(ctx context.Context, name string) error
	ShortHead(ctx context.Context) (string, error)
	LastCommit(ctx context.Context) (git.CommitInfo, error)
}

// Options tunes a Manager. The zero value keeps DefaultMax tags.
type Options struct {
	// Max is the retention limit. Values below 1 mean DefaultMax.
	Max int
	// Disabled turns Auto into a no-op reporting ReasonDisabled.
	Disabled bool
	// Now overrides the clock used for tag stamps.
	Now func() time.Time
}

// Manager creates checkpoints for one project layout.
type Manager struct {
	vcs      VCS
	layout   paths.Layout
	max      int
	disabled bool
	now      func() time.Time
	// addBackoff builds the retry policy for git add on index.lock.
	addBackoff func() backoff.BackOff
	inst       *telemetry.Instrument
}

// NewManager returns a Manager staging layout's managed paths through vcs.
func NewManager(vcs VCS, layout paths.Layout, opts Options) *Manager {
	m := &Manager{
		vcs:      vcs,
		layout:   layout,
		max:      opts.Max,
		disabled: opts.Disabled,
		now:      opts.Now,
		inst:     telemetry.NewInstrument(scopeName, "checkpoint"),
	}
	if m.max < 1 {
		m.max = DefaultMax
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.addBackoff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(150*time.Millisecond), 3)
	}
	return m
}

// Max returns the retention limit in effect.
func (m *Manager) Max() int { return m.max }

// Auto stages the managed paths, commits them when something changed, tags
// the commit and enforces retention.
func (m *Manager) Auto(ctx context.Context, req Request) (res Result) {
	ctx, op := m.inst.Start(ctx, "auto",
		attribute.String("aitri.label", req.Label),
		attribute.String("aitri.phase", req.Phase),
	)
	defer func() {
		op.SetAttributes(
			attribute.Bool("aitri.checkpoint.performed", res.Performed),
			attribute.String("aitri.checkpoint.reason", string(res.Reason)),
		)
		var err error
		if res.Reason.IsFailure() {
			err = errors.New(res.Detail)
		}
		op.End(err)
	}()

	if m.disabled {
		return skipped(ReasonDisabled, "")
	}
	if !m.vcs.IsInsideWorkTree(ctx) {
		return skipped(ReasonNotARepository, "")
	}

	targets := m.existingManagedPaths()
	if len(targets) == 0 {
		debug.Logf("checkpoint: no managed paths exist under %s\n", m.layout.Root)
		return skipped(ReasonNoChanges, "")
	}
	if err := m.add(ctx, targets); err != nil {
		return skipped(ReasonGitAddFailed, errorDetail(err))
	}

	staged, err := m.vcs.StagedFiles(ctx)
	if err != nil {
		return skipped(ReasonGitDiffFailed, errorDetail(err))
	}
	if len(staged) == 0 {
		return skipped(ReasonNoChanges, "")
	}

	if err := m.vcs.Commit(ctx, CommitMessage(req.Label, req.Phase)); err != nil {
		return skipped(ReasonGitCommitFailed, errorDetail(err))
	}
	res = Result{Performed: true}
	if head, err := m.vcs.ShortHead(ctx); err == nil {
		res.Commit = head
	}

	tag := TagName(req.Label, req.Phase, m.now())
	if err := m.vcs.CreateTag(ctx, tag, "HEAD"); err != nil {
		res.TagError = errorDetail(err)
	} else {
		res.Tag = tag
	}
	res.Pruned, res.PruneErrors = m.prune(ctx)
	return res
}

// existingManagedPaths returns the managed paths that exist on disk,
// relative to the layout root where possible.
func (m *Manager) existingManagedPaths() []string {
	var out []string
	for _, p := range m.layout.ManagedPaths() {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(m.layout.Root, p)
		}
		if _, err := os.Stat(abs); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func (m *Manager) add(ctx context.Context, targets []string) error {
	return backoff.Retry(func() error {
		err := m.vcs.Add(ctx, targets...)
		if err != nil && !git.IsIndexLocked(err) {
			return backoff.Permanent(err)
		}
		if err != nil {
			debug.Logf("checkpoint: index.lock held, retrying git add\n")
		}
		return err
	}, backoff.WithContext(m.addBackoff(), ctx))
}

// prune deletes every checkpoint tag beyond the retention limit.
func (m *Manager) prune(ctx context.Context) (pruned, failures []string) {
	tags, err := m.vcs.ListTags(ctx, TagPattern)
	if err != nil {
		return nil, []string{errorDetail(err)}
	}
	sortNewestFirst(tags)
	if len(tags) <= m.max {
		return nil, nil
	}
	for _, t := range tags[m.max:] {
		if err := m.vcs.DeleteTag(ctx, t.Name); err != nil {
			failures = append(failures, t.Name+": "+errorDetail(err))
			continue
		}
		pruned = append(pruned, t.Name)
	}
	return pruned, failures
}

// List returns the current checkpoint tags, newest first.
func (m *Manager) List(ctx context.Context) ([]git.Tag, error) {
	if !m.vcs.IsInsideWorkTree(ctx) {
		return nil, nil
	}
	tags, err := m.vcs.ListTags(ctx, TagPattern)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(tags)
	return tags, nil
}

func errorDetail(err error) string {
	var ge *git.GitError
	if errors.As(err, &ge) && ge.Stderr != "" {
		return ge.Stderr
	}
	return err.Error()
}
