// Package mcp exposes the converter and the snippet catalog as Model Context
// Protocol tools served over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/conneroisu/tailplay/internal/catalog"
	"github.com/conneroisu/tailplay/internal/convert"
	"github.com/conneroisu/tailplay/internal/logging"
	"github.com/conneroisu/tailplay/internal/version"
)

// Server implements the MCP server for tailplay.
type Server struct {
	mcpServer *server.MCPServer
	engine    convert.Engine
	catalog   *catalog.Catalog
	logger    logging.Logger
}

// NewServer creates an MCP server backed by engine and cat. A nil logger
// discards output.
func NewServer(engine convert.Engine, cat *catalog.Catalog, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Server{engine: engine, catalog: cat, logger: logger.WithComponent("mcp")}

	s.mcpServer = server.NewMCPServer(
		"tailplay",
		version.GetVersion(),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.loggingMiddleware()),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: convertMarkupTool(), Handler: s.handleConvertMarkup},
		server.ServerTool{Tool: listExamplesTool(), Handler: s.handleListExamples},
		server.ServerTool{Tool: getExampleTool(), Handler: s.handleGetExample},
		server.ServerTool{Tool: convertExampleTool(), Handler: s.handleConvertExample},
	)

	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
