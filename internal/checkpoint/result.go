// Package checkpoint snapshots workflow artifacts as git commits and tags,
// keeps a bounded window of checkpoint tags, and detects when the last
// commit was a checkpoint worth resuming from.
//
// Checkpointing is best-effort. Auto never panics and never returns an
// error; every outcome is a Result with a stable, grep-friendly sentence.
package checkpoint

import "fmt"

// Reason explains why a checkpoint was not performed.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonDisabled        Reason = "disabled"
	ReasonNotARepository  Reason = "not_a_repository"
	ReasonNoChanges       Reason = "no_changes"
	ReasonGitAddFailed    Reason = "git_add_failed"
	ReasonGitDiffFailed   Reason = "git_diff_failed"
	ReasonGitCommitFailed Reason = "git_commit_failed"
)

var reasonMessages = map[Reason]string{
	ReasonDisabled:        "Checkpoint skipped: disabled.",
	ReasonNotARepository:  "Checkpoint skipped: not a git repository.",
	ReasonNoChanges:       "Checkpoint skipped: no changes to commit.",
	ReasonGitAddFailed:    "Checkpoint failed: git add failed.",
	ReasonGitDiffFailed:   "Checkpoint failed: git diff failed.",
	ReasonGitCommitFailed: "Checkpoint failed: git commit failed.",
}

// Message returns the fixed sentence shown for r.
func (r Reason) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return fmt.Sprintf("Checkpoint skipped: %s.", string(r))
}

// IsFailure reports whether r is a git failure rather than a benign skip.
func (r Reason) IsFailure() bool {
	switch r {
	case ReasonGitAddFailed, ReasonGitDiffFailed, ReasonGitCommitFailed:
		return true
	}
	return false
}

// Request names what is being checkpointed. An empty Label means the
// whole project.
type Request struct {
	Label string
	Phase string
}

// Result is the outcome of one Auto call.
type Result struct {
	Performed bool   `json:"performed"`
	Reason    Reason `json:"reason,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Tag       string `json:"tag,omitempty"`
	// TagError is set when the commit landed but tagging failed.
	TagError    string   `json:"tagError,omitempty"`
	Pruned      []string `json:"pruned,omitempty"`
	PruneErrors []string `json:"pruneErrors,omitempty"`
}

// Message returns the one-line human summary of r.
func (r Result) Message() string {
	if !r.Performed {
		return r.Reason.Message()
	}
	if r.Tag != "" {
		return "Checkpoint created: " + r.Tag
	}
	return fmt.Sprintf("Checkpoint created: %s (tag failed)", r.Commit)
}

func skipped(reason Reason, detail string) Result {
	return Result{Performed: false, Reason: reason, Detail: detail}
}
