// Package internal contains the core implementation packages for tailplay.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the tailplay CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - convert: Utility-token to CSS conversion, token and color tables, result cache
//   - catalog: Example and template snippets, YAML discovery and filtering
//   - preview: Preview document composition from html, css and js panels
//   - config: Configuration management with validation and security
//   - errors: Structured error types, HTTP status mapping and suggestions
//   - logging: Structured logging on log/slog
//   - server: HTTP pages, JSON API and the /ws live channel
//   - watcher: File system monitoring with debouncing
//   - mcp: Model Context Protocol tool server
//   - validation: URL and origin checks
//   - version: Build information
//
// # Inter-Package Communication
//
//   - convert is a leaf: it holds immutable tables and never fails
//   - catalog converts snippets through a convert.Engine
//   - server and mcp are two front ends over the same engine and catalog
//   - watcher reports snippet file changes; server reloads the catalog and
//     broadcasts the new snippet count to WebSocket clients
//
// # Security Considerations
//
//   - Config package validates all configuration inputs
//   - Server package checks WebSocket origins and bounds request bodies
//   - Preview documents neutralize closing style and script tags in panels
//   - Catalog paths are validated against traversal
package internal
