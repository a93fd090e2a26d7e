package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	byebye "github.com/HendryAvila/byebyeanxiety/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Starts the MCP server on stdin/stdout. Add it to your AI tool's MCP config:

  {
    "mcpServers": {
      "byebye": {
        "command": "byebye",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, cleanup, err := byebye.New(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	logger.Info("serving on stdio", zap.String("version", byebye.Version))
	// ServeStdio handles SIGINT and SIGTERM itself.
	return server.ServeStdio(s)
}

func version() string {
	return byebye.Version
}
