// Package mcp provides an MCP (Model Context Protocol) server adapter for cpix.
// It enables AI assistants to calculate custom price indices and inspect the
// weight hierarchy without going through the CLI.
package mcp

import "errors"

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")
