package main

import (
	"fmt"
	"strings"

	"github.com/aitri-dev/aitri/internal/feature"
)

func draftTemplate(name, idea string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	b.WriteString("## Context\n\n")
	if idea = strings.TrimSpace(idea); idea != "" {
		b.WriteString(idea + "\n\n")
	} else {
		b.WriteString("What problem does this feature solve, and for whom?\n\n")
	}
	b.WriteString("## Functional rules\n\n- \n\n")
	b.WriteString("## Acceptance criteria\n\n- Given ..., when ..., then ...\n\n")
	b.WriteString("## Out of scope\n\n- \n")
	return b.String()
}

func backlogTemplate(name string) string {
	return fmt.Sprintf("# Backlog: %s\n\n## User stories\n\n- As a ..., I want ..., so that ...\n", name)
}

func testsTemplate(name string) string {
	return fmt.Sprintf("# Tests: %s\n\n## Cases\n\n| ID | Scenario | Expected |\n|---|---|---|\n| TC-1 | | |\n", name)
}

func discoveryTemplate(name string) string {
	return fmt.Sprintf("# Discovery: %s\n\n## Users\n\n## Constraints\n\n## Risks\n", name)
}

func planTemplate(name, specPath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Plan: %s\n\n", name)
	fmt.Fprintf(&b, "Spec: `%s`\n\n", specPath)
	b.WriteString("## Architecture\n\n## Tasks\n\n1. \n\n## Test strategy\n")
	return b.String()
}

func deliveryReportTemplate(rec feature.DeliveryRecord, notes string) string {
	decision := string(rec.Decision)
	if rec.Decision == feature.DecisionNone {
		decision = "pending"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Delivery: %s\n\n", rec.Feature)
	fmt.Fprintf(&b, "- Decision: %s\n", decision)
	if rec.DeliveredAt != "" {
		fmt.Fprintf(&b, "- Delivered at: %s\n", rec.DeliveredAt)
	}
	if rec.ReleaseTag != "" {
		fmt.Fprintf(&b, "- Release tag: %s\n", rec.ReleaseTag)
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		fmt.Fprintf(&b, "\n## Notes\n\n%s\n", notes)
	}
	return b.String()
}
