package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tailplay/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the converter and catalog as MCP tools over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing the tools
convert_markup, list_examples, get_example and convert_example.

Logs are written to stderr; stdout carries only protocol messages.

Example MCP client configuration:
  {"command": "tailplay", "args": ["mcp", "--catalog", "./snippets"]}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	engine, err := cfg.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to create converter: %w", err)
	}

	cat := loadCatalog(cmd.Context(), cfg, logger)
	logger.Info(cmd.Context(), "Serving MCP tools on stdio", "snippets", cat.Len())

	return mcp.NewServer(engine, cat, logger).ServeStdio()
}
