package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose search, ask and stats to MCP clients.

Tools accept an owner_id (a user ID or email). When --user or
DOCVAULT_USER is set, that user answers calls that omit it; otherwise
every call must name its owner, so one server can serve several users.

Without --port the server speaks JSON-RPC on stdin/stdout, which is what
desktop assistants launch. With --port it serves streamable HTTP on
127.0.0.1 until interrupted.

Examples:
  docvault mcp serve
  docvault --user ada@example.com mcp serve
  docvault mcp serve --port 8080

Client entry:
  {
    "mcpServers": {
      "docvault": {
        "command": "/path/to/docvault",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Annotations: engineAnnotation,
	RunE:        runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Query: queryService,
		Stats: statsService,
		Users: userService,
	}

	opts := []mcp.Option{mcp.WithVersion(version)}
	if userFlag != "" || os.Getenv(EnvUser) != "" {
		owner, err := resolveOwner(cmd.Context())
		if err != nil {
			return err
		}
		opts = append(opts, mcp.WithDefaultOwner(owner))
	}

	server, err := mcp.NewServer(ports, opts...)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
