package main

import (
	"github.com/spf13/cobra"

	"github.com/aitri-dev/aitri/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:     "mcp",
	GroupID: "setup",
	Short:   "Serve read-only status tools over MCP stdio",
	Long: `Start an MCP server on stdin/stdout exposing aitri_status, aitri_features,
aitri_next and aitri_resume. The tools only read; they never run workflow
commands or create checkpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		// stdout belongs to the protocol.
		nonInteractive = true
		p := getProject()
		project := &mcpserver.Project{
			Registry:    p.Registry,
			Checkpoints: p.Checkpoints,
			Program:     program(),
		}
		if err := mcpserver.Serve(project, Version); err != nil {
			FatalError("mcp server: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
