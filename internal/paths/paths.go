// Package paths maps a project root and configured logical roots to the
// canonical artifact locations used by the workflow.
//
// Everything here is a pure function of its inputs. Nothing touches the
// filesystem; callers decide whether a path exists.
package paths

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Default logical roots, relative to the project root.
const (
	DefaultSpecs   = "specs"
	DefaultBacklog = "backlog"
	DefaultTests   = "tests"
	DefaultDocs    = "docs"
)

// MaxFeatureNameLength bounds feature names so derived paths stay portable.
const MaxFeatureNameLength = 100

var featureNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Overrides carries configured logical roots. Empty fields fall back to the
// defaults; relative values are resolved against the project root.
type Overrides struct {
	Specs   string
	Backlog string
	Tests   string
	Docs    string
}

// Layout is the resolved set of logical roots for one project.
type Layout struct {
	Root    string
	Specs   string
	Backlog string
	Tests   string
	Docs    string
}

// New resolves a Layout for root. root is cleaned but not made absolute;
// pass an absolute root when paths are shown to users.
func New(root string, o Overrides) Layout {
	root = filepath.Clean(root)
	return Layout{
		Root:    root,
		Specs:   resolve(root, o.Specs, DefaultSpecs),
		Backlog: resolve(root, o.Backlog, DefaultBacklog),
		Tests:   resolve(root, o.Tests, DefaultTests),
		Docs:    resolve(root, o.Docs, DefaultDocs),
	}
}

func resolve(root, value, fallback string) string {
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// ValidateFeatureName rejects names that are not safe to embed in a path.
func ValidateFeatureName(name string) error {
	if name == "" {
		return fmt.Errorf("feature name is required")
	}
	if len(name) > MaxFeatureNameLength {
		return fmt.Errorf("feature name %q is too long (max %d characters)", name, MaxFeatureNameLength)
	}
	if !featureNameRe.MatchString(name) {
		return fmt.Errorf("invalid feature name %q: use letters, digits, '.', '_' or '-', starting with a letter or digit", name)
	}
	return nil
}

// DraftsDir holds draft specs, one <feature>.md each.
func (l Layout) DraftsDir() string { return filepath.Join(l.Specs, "drafts") }

// ApprovedDir holds approved specs, one <feature>.md each.
func (l Layout) ApprovedDir() string { return filepath.Join(l.Specs, "approved") }

// DraftSpec returns <specs>/drafts/<feature>.md.
func (l Layout) DraftSpec(feature string) string {
	return filepath.Join(l.DraftsDir(), feature+".md")
}

// ApprovedSpec returns <specs>/approved/<feature>.md.
func (l Layout) ApprovedSpec(feature string) string {
	return filepath.Join(l.ApprovedDir(), feature+".md")
}

// BacklogFile returns <backlog>/<feature>/backlog.md.
func (l Layout) BacklogFile(feature string) string {
	return filepath.Join(l.Backlog, feature, "backlog.md")
}

// TestsFile returns <tests>/<feature>/tests.md.
func (l Layout) TestsFile(feature string) string {
	return filepath.Join(l.Tests, feature, "tests.md")
}

// Discovery returns <docs>/discovery/<feature>.md.
func (l Layout) Discovery(feature string) string {
	return filepath.Join(l.Docs, "discovery", feature+".md")
}

// Plan returns <docs>/plan/<feature>.md.
func (l Layout) Plan(feature string) string {
	return filepath.Join(l.Docs, "plan", feature+".md")
}

// ImplementationDir returns <docs>/implementation/<feature>.
func (l Layout) ImplementationDir(feature string) string {
	return filepath.Join(l.Docs, "implementation", feature)
}

// GoMarker is the file whose presence authorizes implementation.
func (l Layout) GoMarker(feature string) string {
	return filepath.Join(l.ImplementationDir(feature), "go.json")
}

// BuildMarker records that implementation scaffolding has started.
func (l Layout) BuildMarker(feature string) string {
	return filepath.Join(l.ImplementationDir(feature), "build.json")
}

// Delivery returns the delivery record path, <docs>/delivery/<feature>.json.
func (l Layout) Delivery(feature string) string {
	return filepath.Join(l.Docs, "delivery", feature+".json")
}

// DeliveryReport returns the human-readable delivery summary path.
func (l Layout) DeliveryReport(feature string) string {
	return filepath.Join(l.Docs, "delivery", feature+".md")
}

// Feedback returns <docs>/feedback/<feature>.md.
func (l Layout) Feedback(feature string) string {
	return filepath.Join(l.Docs, "feedback", feature+".md")
}

// QueueCandidates lists the priority queue files in lookup order.
func (l Layout) QueueCandidates() []string {
	return []string{
		filepath.Join(l.Docs, "queue.yaml"),
		filepath.Join(l.Docs, "queue.yml"),
		filepath.Join(l.Docs, "queue.toml"),
	}
}

// ManagedPaths returns the logical roots relative to Root, de-duplicated,
// in a stable order. These are the only paths a checkpoint stages.
// Roots outside the project are returned as absolute paths.
func (l Layout) ManagedPaths() []string {
	seen := make(map[string]bool, 4)
	out := make([]string, 0, 4)
	for _, dir := range []string{l.Specs, l.Backlog, l.Tests, l.Docs} {
		rel, err := filepath.Rel(l.Root, dir)
		if err != nil || rel == ".." || filepath.IsAbs(rel) || hasParentPrefix(rel) {
			rel = dir
		}
		if seen[rel] {
			continue
		}
		seen[rel] = true
		out = append(out, rel)
	}
	return out
}

func hasParentPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
