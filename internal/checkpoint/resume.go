package checkpoint

import (
	"context"
	"regexp"
)

// ResumeDecision is reported whenever the last commit is a checkpoint.
const ResumeDecision = "ask_user_resume_from_checkpoint"

var checkpointSubject = regexp.MustCompile(`^checkpoint: \S+ \S+`)

// Resume describes whether the project looks like it stopped at a checkpoint.
type Resume struct {
	Detected       bool   `json:"detected"`
	Commit         string `json:"commit,omitempty"`
	Message        string `json:"message,omitempty"`
	ResumeDecision string `json:"resumeDecision,omitempty"`
}

// IsCheckpointSubject reports whether subject was written by Auto.
func IsCheckpointSubject(subject string) bool {
	return checkpointSubject.MatchString(subject)
}

// DetectResume inspects the latest commit. It is advisory and never fails:
// outside a repository or on an empty one it reports Detected=false.
func (m *Manager) DetectResume(ctx context.Context) Resume {
	if !m.vcs.IsInsideWorkTree(ctx) {
		return Resume{}
	}
	last, err := m.vcs.LastCommit(ctx)
	if err != nil || !IsCheckpointSubject(last.Subject) {
		return Resume{}
	}
	return Resume{
		Detected:       true,
		Commit:         last.Hash,
		Message:        last.Subject,
		ResumeDecision: ResumeDecision,
	}
}
