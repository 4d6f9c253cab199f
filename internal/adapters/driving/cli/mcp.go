package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/mcp"
	"github.com/custodia-labs/sercha-notes/internal/metrics"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
your notes.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead. HTTP mode also serves
Prometheus metrics on /metrics and a liveness probe on /healthz.

Examples:
  # Stdio mode (default)
  sercha-notes mcp serve

  # HTTP mode
  sercha-notes mcp serve --port 8080`,
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

	svc, err := loadServices()
	if err != nil {
		return err
	}

	if svc.Ephemeral {
		if _, err := svc.Indexer.InitializeSearchIndex(cmd.Context(), svc.MasterKey); err != nil {
			return fmt.Errorf("building index: %w", err)
		}
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search:    svc.Search,
		Indexer:   svc.Indexer,
		Settings:  svc.Settings,
		MasterKey: svc.MasterKey,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		metrics.Register()
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
