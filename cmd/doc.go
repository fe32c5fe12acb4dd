// Package cmd provides the command-line interface for tailplay.
//
// This package implements all CLI commands using the Cobra framework.
//
// # Available Commands
//
//   - serve: Start the playground server (HTTP pages, JSON API and /ws)
//   - convert: Convert utility-class markup from a file, stdin or the catalog
//   - examples: List catalog snippets with optional tag and query filters
//   - mcp: Serve the converter and catalog as MCP tools over stdio
//   - version: Show build information
//
// # Command Examples
//
//	// Start the playground and open a browser
//	tailplay serve --open
//
//	// Convert markup from stdin
//	echo '<div className="p-4 bg-white">Hi</div>' | tailplay convert
//
//	// Convert a catalog example as YAML
//	tailplay convert --example gradient-button --format yaml
//
//	// List button snippets as JSON
//	tailplay examples --tag button -o json
//
// # Configuration Integration
//
// Commands respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (TAILPLAY_*)
//  3. Configuration file (.tailplay.yml)
//  4. Default values (lowest priority)
//
// # Error Handling
//
// Configuration and startup failures are returned as enhanced errors that
// carry suggestions for fixing the problem. Interrupts (Ctrl+C) shut the
// server down gracefully.
package cmd
