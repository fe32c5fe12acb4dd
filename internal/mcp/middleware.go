package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// loggingMiddleware records every tool call at debug level and failed calls
// as warnings. stdout carries the protocol, so the logger must write
// elsewhere.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)

			fields := []interface{}{
				"tool", req.Params.Name,
				"duration", time.Since(start).String(),
			}
			switch {
			case err != nil:
				s.logger.Warn(ctx, err, "Tool call failed", fields...)
			case result != nil && result.IsError:
				s.logger.Warn(ctx, nil, "Tool call returned an error result", fields...)
			default:
				s.logger.Debug(ctx, "Tool call", fields...)
			}

			return result, err
		}
	}
}
