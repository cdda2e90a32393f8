// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents save, search and export conversations via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/oogvault/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const mcpServerName = "OogVault"

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the vault as an MCP (Model Context Protocol) server, letting
LLM agents like Claude save conversations, search them, suggest
similar questions and export knowledge via stdio.

Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by the agent host)
  oogvault mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "oogvault": {
  #       "command": "oogvault",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer(mcpServerName, versionInfo.Version)
	mcp.RegisterTools(server, a.store, a.retriever, a.ingestor, a.prefs, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("MCP server starting on stdio",
		zap.String("db", a.cfg.DBPath),
		zap.String("settings", a.cfg.SettingsPath))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
