// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"

	"github.com/harperreed/sherpa/handlers"
	"github.com/harperreed/sherpa/logger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, app *App) error {
	ws, err := app.workspace(ctx)
	if err != nil {
		return err
	}
	logger.Info("Starting sherpa MCP server", "accounts", len(ws.Accounts), "nodes", ws.Engine.Store().NodeCount())

	server := handlers.NewServer(ws)
	return server.Run(ctx, &mcp.StdioTransport{})
}
