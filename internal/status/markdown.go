package status

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Markdown renders the report as a dashboard for `status --ui`.
func (r Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Project status\n\n")
	fmt.Fprintf(&b, "`%s`\n\n", r.Root)
	fmt.Fprintf(&b, "**%d** features: %d delivered, %d in progress, %d draft\n\n",
		r.Summary.Total, r.Summary.Delivered, r.Summary.InProgress, r.Summary.Draft)

	if len(r.Features) > 0 {
		b.WriteString("| Feature | State | Spec |\n")
		b.WriteString("|---|---|---|\n")
		for _, f := range r.Features {
			spec := "-"
			if f.SpecFile != "" {
				spec = relativeTo(r.Root, f.SpecFile)
			}
			state := string(f.State)
			if f.DeliveredAt != "" {
				state += " (" + f.DeliveredAt + ")"
			}
			name := f.Name
			if f.Name == r.Feature {
				name = "**" + name + "**"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", name, state, spec)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Next step\n\n")
	fmt.Fprintf(&b, "%s\n\n", r.NextStepMessage)
	if r.RecommendedCommand != "" {
		fmt.Fprintf(&b, "```sh\n%s\n```\n\n", r.RecommendedCommand)
	}
	fmt.Fprintf(&b, "Confidence: %s\n", r.Confidence)

	if r.Checkpoint.Detected {
		b.WriteString("\n## Checkpoint\n\n")
		fmt.Fprintf(&b, "Last commit `%s` is a checkpoint: %s\n", r.Checkpoint.Commit, r.Checkpoint.Message)
	}
	return b.String()
}

func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
