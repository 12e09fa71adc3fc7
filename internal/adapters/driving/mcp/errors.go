// Package mcp provides an MCP (Model Context Protocol) server adapter for quire.
// It lets AI assistants read and edit the workspace through tools and resources.
package mcp

import "errors"

// ErrMissingWorkspaceService is returned when the workspace service is not provided.
var ErrMissingWorkspaceService = errors.New("mcp: workspace service is required")
