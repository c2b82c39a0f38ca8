package checkpoint

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aitri-dev/aitri/internal/git"
)

const (
	// TagNamespace prefixes every checkpoint tag.
	TagNamespace = "aitri-checkpoint/"
	// TagPattern matches checkpoint tags for git tag --list.
	TagPattern = TagNamespace + "*"

	// DefaultMax is how many checkpoint tags are kept.
	DefaultMax = 10

	defaultLabel = "project"
	defaultPhase = "checkpoint"
)

var (
	invalidTagChars = regexp.MustCompile(`[^a-z0-9._-]+`)
	dashRuns        = regexp.MustCompile(`-{2,}`)
	dotRuns         = regexp.MustCompile(`\.{2,}`)
	embeddedStamp   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}-\d{3}Z$`)
)

// Sanitize lowercases s and reduces it to [a-z0-9._-], collapsing invalid
// runs to a single '-' and trimming '-' and '.' from both ends. Runs of '.'
// collapse to one, since git rejects ".." in ref names.
func Sanitize(s string) string {
	s = strings.ToLower(s)
	s = invalidTagChars.ReplaceAllString(s, "-")
	s = dotRuns.ReplaceAllString(s, ".")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-.")
}

// Stamp formats t as UTC ISO-8601 with milliseconds, with ':' and '.'
// replaced by '-' (2024-01-01T12-00-00-000Z).
func Stamp(t time.Time) string {
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(iso)
}

// TagName builds the checkpoint tag for label and phase at t.
func TagName(label, phase string, t time.Time) string {
	l := Sanitize(label)
	if l == "" {
		l = defaultLabel
	}
	p := Sanitize(phase)
	if p == "" {
		p = defaultPhase
	}
	return TagNamespace + l + "-" + p + "-" + Stamp(t)
}

// CommitMessage is the subject written for a checkpoint commit.
func CommitMessage(label, phase string) string {
	if strings.TrimSpace(label) == "" {
		label = defaultLabel
	}
	if strings.TrimSpace(phase) == "" {
		phase = defaultPhase
	}
	return "checkpoint: " + strings.Join(strings.Fields(label), "-") + " " + strings.Join(strings.Fields(phase), "-")
}

// sortNewestFirst orders tags by creation date, newest first. git records
// creator dates at one-second resolution, so ties fall back to the
// millisecond stamp embedded in the tag name.
func sortNewestFirst(tags []git.Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		a, b := tags[i], tags[j]
		if !a.Created.Equal(b.Created) {
			return a.Created.After(b.Created)
		}
		return embeddedStamp.FindString(a.Name) > embeddedStamp.FindString(b.Name)
	})
}

// StampTime returns the time embedded in a checkpoint tag name.
func StampTime(name string) (time.Time, bool) {
	s := embeddedStamp.FindString(name)
	if s == "" {
		return time.Time{}, false
	}
	// 2024-01-01T12-00-00-000Z -> 2024-01-01T12:00:00.000Z
	b := []byte(s)
	b[13], b[16], b[19] = ':', ':', '.'
	t, err := time.Parse("2006-01-02T15:04:05.000Z", string(b))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
