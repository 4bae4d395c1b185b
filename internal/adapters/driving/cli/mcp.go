package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pemre/couchspinner/internal/adapters/driving/fileinput"
	"github.com/pemre/couchspinner/internal/adapters/driving/mcp"
	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/services"
	"github.com/pemre/couchspinner/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ingest an
export and query the session.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead. An optional file is ingested before serving.

Examples:
  # Stdio mode
  couchspinner mcp serve

  # HTTP mode with an export preloaded
  couchspinner mcp serve --port 8080 export.zip

MCP client configuration:
  {
    "mcpServers": {
      "couchspinner": {
        "command": "/path/to/couchspinner",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, orchestrator, err := newMCPServer(cmd.Context())
	if err != nil {
		return err
	}

	if len(args) == 1 {
		input, err := fileinput.Load(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		if _, err := orchestrator.Ingest(cmd.Context(), []domain.RawInput{input}); err != nil {
			return fmt.Errorf("%s: %w", services.UserMessage(err), err)
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

// newMCPServer wires a session into an MCP server.
func newMCPServer(ctx context.Context) (*mcp.Server, *services.IngestionOrchestrator, error) {
	orchestrator, identities, err := newSession(ctx, logPresenter{})
	if err != nil {
		return nil, nil, err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Ingestor: orchestrator,
		Identity: identities,
		Assets:   assetStore,
		Load:     fileinput.Load,
	})
	if err != nil {
		return nil, nil, err
	}
	return server, orchestrator, nil
}

// logPresenter presents through the logger, keeping stdout free for the
// stdio transport.
type logPresenter struct{}

func (logPresenter) Present(_ context.Context, state domain.SessionState) {
	logger.Debug("Session ready: %d identities, %d assets", len(state.Identities), len(state.Assets))
}

func (logPresenter) ScrollToTop() {}

func (logPresenter) NotifyError(message string) {
	logger.Warn("Session error: %s", message)
}
