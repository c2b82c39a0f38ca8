// Package mcpserver exposes the read-only project status over MCP stdio so
// agents can ask what to do next. Tools never dispatch commands and never
// create checkpoints.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/aitri-dev/aitri/internal/feature"
	"github.com/aitri-dev/aitri/internal/status"
)

// Project is everything the tools read from.
type Project struct {
	Registry    *feature.Registry
	Checkpoints status.ResumeDetector
	Program     string
}

// report rereads the queue on every call; a broken queue file is ignored.
func (p *Project) report(ctx context.Context, name string) (status.Report, error) {
	queue, _ := feature.LoadQueue(p.Registry.Resolver().Layout())
	return status.Build(ctx, status.Options{
		Feature:     name,
		Registry:    p.Registry,
		Queue:       queue,
		Checkpoints: p.Checkpoints,
		Program:     p.Program,
	})
}

// New creates the MCP server with every tool registered.
func New(p *Project, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"aitri",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	statusTool := NewStatusTool(p)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	featuresTool := NewFeaturesTool(p)
	s.AddTool(featuresTool.Definition(), featuresTool.Handle)

	nextTool := NewNextTool(p)
	s.AddTool(nextTool.Definition(), nextTool.Handle)

	resumeTool := NewResumeTool(p)
	s.AddTool(resumeTool.Definition(), resumeTool.Handle)

	return s
}

// Serve blocks serving stdio until the client disconnects.
func Serve(p *Project, version string) error {
	return server.ServeStdio(New(p, version))
}

const instructions = `aitri tracks features through draft, approved, implementation, deliver_pending and delivered.
Call aitri_next to learn the single recommended command, aitri_status for the full report.
These tools are read-only. Run the recommended command yourself.`
