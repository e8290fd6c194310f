package main

import (
	"fmt"
	"log"

	"github.com/rulesmith/rulesmith/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPServerCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run rulesmith as an MCP (Model Context Protocol) server",
		Long: `Start an MCP server that exposes rulesmith functionality over stdio.

The server lets MCP clients (Claude Desktop, Cursor, Cline and similar
tools) drive the scanner and the rule assistant directly:

  • scan_repository - Scan a repository for rule-engine artifacts
  • list_rules      - List discovered files by type
  • generate_rule   - Generate a DRL rule from repository context
  • analyze_rule    - Analyze an existing DRL rule

Generation and analysis need a configured Groq API key; the scanning
tools work without one. The server speaks JSON-RPC 2.0 over
stdin/stdout, following the Model Context Protocol specification.

Example client configuration:

  {
    "mcpServers": {
      "rulesmith": {
        "command": "rulesmith",
        "args": ["mcp-server"]
      }
    }
  }
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			asst, err := app.ensureAssistant()
			if err != nil {
				log.Printf("[MCP] LLM tools disabled: %v", err)
				asst = nil
			}
			srv := mcpserver.New(mcpserver.Options{
				Version:   version,
				Assistant: asst,
			})
			if err := srv.Serve(); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}
}
