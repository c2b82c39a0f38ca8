// Package git is the narrow VCS boundary used by checkpoints and resume
// detection. Every call shells out to the git CLI with -C <dir>, so the
// caller's working directory never matters.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// GitError records a failed git invocation with its captured stderr.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *GitError) Unwrap() error { return e.Err }

// IsIndexLocked reports whether err is git refusing to run because another
// process holds .git/index.lock.
func IsIndexLocked(err error) bool {
	var ge *GitError
	if !errors.As(err, &ge) {
		return false
	}
	return strings.Contains(ge.Stderr, "index.lock")
}

// Repo runs git commands against the work tree at Dir.
type Repo struct {
	Dir string
	// Env is appended to the inherited environment of every git process.
	Env []string
}

// NewRepo returns a Repo rooted at dir.
func NewRepo(dir string) *Repo {
	return &Repo{Dir: dir}
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", r.Dir}, args...)
	cmd := exec.CommandContext(ctx, "git", full...) // #nosec G204 -- fixed git subcommands
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &GitError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.String(), nil
}

// IsInsideWorkTree reports whether Dir is inside a git work tree. A missing
// git binary counts as not a repository.
func (r *Repo) IsInsideWorkTree(ctx context.Context) bool {
	out, err := r.run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) == "true"
}

// TopLevel returns the absolute path of the work tree root.
func (r *Repo) TopLevel(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Add stages paths (relative to Dir).
func (r *Repo) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	_, err := r.run(ctx, args...)
	return err
}

// StagedFiles lists paths in the index that differ from HEAD.
func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := r.run(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// Commit records the index with message. Hooks are not skipped.
func (r *Repo) Commit(ctx context.Context, message string) error {
	_, err := r.run(ctx, "commit", "-m", message)
	return err
}

// CreateTag creates a lightweight tag name at ref.
func (r *Repo) CreateTag(ctx context.Context, name, ref string) error {
	_, err := r.run(ctx, "tag", name, ref)
	return err
}

// DeleteTag removes a local tag.
func (r *Repo) DeleteTag(ctx context.Context, name string) error {
	_, err := r.run(ctx, "tag", "-d", name)
	return err
}

// Tag is a tag name with the creation date git reports for it.
type Tag struct {
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// ListTags returns tags matching pattern, newest creation date first. Tags
// whose date cannot be parsed keep a zero Created.
func (r *Repo) ListTags(ctx context.Context, pattern string) ([]Tag, error) {
	out, err := r.run(ctx, "tag", "--list", pattern,
		"--sort=-creatordate", "--format=%(refname:short)%09%(creatordate:iso-strict)")
	if err != nil {
		return nil, err
	}
	var tags []Tag
	for _, line := range splitLines(out) {
		name, date, _ := strings.Cut(line, "\t")
		t := Tag{Name: name}
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(date)); err == nil {
			t.Created = ts
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// ShortHead returns the abbreviated HEAD commit hash.
func (r *Repo) ShortHead(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CommitInfo is the abbreviated hash and subject of a commit.
type CommitInfo struct {
	Hash    string
	Subject string
}

// LastCommit returns HEAD's short hash and subject. It fails on a
// repository with no commits.
func (r *Repo) LastCommit(ctx context.Context) (CommitInfo, error) {
	out, err := r.run(ctx, "log", "-1", "--format=%h%x09%s")
	if err != nil {
		return CommitInfo{}, err
	}
	hash, subject, _ := strings.Cut(strings.TrimRight(out, "\r\n"), "\t")
	return CommitInfo{Hash: hash, Subject: subject}, nil
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
