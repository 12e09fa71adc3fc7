package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quire/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can read
and edit the workspace.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Edits made through the server are saved by the normal autosave.

Examples:
  # Stdio mode (default)
  quire mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  quire mcp serve --port 8080`,
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

	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Workspace: ws,
		Export:    exportService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
