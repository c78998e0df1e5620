package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can query
meeting trends, executive summaries and indexed transcripts.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Tools:     search_transcripts, dashboard, executive_summary, repeated_risks
Resources: pulse://insights, pulse://insights/{filename}, pulse://index/stats

Examples:
  # Stdio mode (default, for desktop assistants)
  pulse mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  pulse mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "pulse": {
        "command": "/path/to/pulse",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Trends:   trendService,
		Index:    indexService,
		Insights: insightService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if addr := mcp.ListenAddr(port); addr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
