package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aitri-dev/aitri/internal/paths"
)

// StatusTool handles aitri_status.
type StatusTool struct{ p *Project }

// NewStatusTool creates a StatusTool.
func NewStatusTool(p *Project) *StatusTool { return &StatusTool{p: p} }

// Definition returns the MCP tool definition for aitri_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("aitri_status",
		mcp.WithDescription("Full project status report as JSON: every feature, its state, and the recommended next command."),
		mcp.WithString("feature",
			mcp.Description("Pin the report to one feature. Omit to let aitri pick."),
		),
	)
}

// Handle processes the aitri_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(req.GetString("feature", ""))
	if name != "" {
		if err := paths.ValidateFeatureName(name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	rep, err := t.p.report(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build status: %v", err)), nil
	}
	return jsonResult(rep)
}

// FeaturesTool handles aitri_features.
type FeaturesTool struct{ p *Project }

// NewFeaturesTool creates a FeaturesTool.
func NewFeaturesTool(p *Project) *FeaturesTool { return &FeaturesTool{p: p} }

// Definition returns the MCP tool definition for aitri_features.
func (t *FeaturesTool) Definition() mcp.Tool {
	return mcp.NewTool("aitri_features",
		mcp.WithDescription("List every known feature with its derived state."),
	)
}

// Handle processes the aitri_features tool call.
func (t *FeaturesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	features, err := t.p.Registry.ScanAll()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to scan features: %v", err)), nil
	}
	if len(features) == 0 {
		return mcp.NewToolResultText("No features found."), nil
	}

	var sb strings.Builder
	sb.WriteString("## Features\n\n")
	for _, f := range features {
		sb.WriteString(fmt.Sprintf("- **%s**: %s", f.Name, f.State))
		if f.DeliveredAt != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", f.DeliveredAt))
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// NextTool handles aitri_next.
type NextTool struct{ p *Project }

// NewNextTool creates a NextTool.
func NewNextTool(p *Project) *NextTool { return &NextTool{p: p} }

// Definition returns the MCP tool definition for aitri_next.
func (t *NextTool) Definition() mcp.Tool {
	return mcp.NewTool("aitri_next",
		mcp.WithDescription("The single recommended next command and why."),
	)
}

// Handle processes the aitri_next tool call.
func (t *NextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, err := t.p.report(ctx, "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build status: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Next step: %s\n", rep.NextStep))
	if rep.Feature != "" {
		sb.WriteString(fmt.Sprintf("Feature: %s (%s)\n", rep.Feature, rep.State))
	}
	sb.WriteString(rep.NextStepMessage + "\n")
	if rep.RecommendedCommand != "" {
		sb.WriteString(fmt.Sprintf("Command: %s\n", rep.RecommendedCommand))
	}
	sb.WriteString(fmt.Sprintf("Confidence: %s\n", rep.Confidence))
	return mcp.NewToolResultText(sb.String()), nil
}

// ResumeTool handles aitri_resume.
type ResumeTool struct{ p *Project }

// NewResumeTool creates a ResumeTool.
func NewResumeTool(p *Project) *ResumeTool { return &ResumeTool{p: p} }

// Definition returns the MCP tool definition for aitri_resume.
func (t *ResumeTool) Definition() mcp.Tool {
	return mcp.NewTool("aitri_resume",
		mcp.WithDescription("Whether the last commit is an aitri checkpoint the user may want to resume from."),
	)
}

// Handle processes the aitri_resume tool call.
func (t *ResumeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.p.Checkpoints == nil {
		return mcp.NewToolResultText("No checkpoint detected."), nil
	}
	r := t.p.Checkpoints.DetectResume(ctx)
	if !r.Detected {
		return mcp.NewToolResultText("No checkpoint detected."), nil
	}
	return jsonResult(r)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
