package mcp

import (
	"github.com/custodia-labs/quire/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// Workspace reads and edits pages and blocks.
	Workspace driving.WorkspaceService

	// Export renders pages as Markdown. Optional; without it page
	// resources are not available.
	Export driving.ExportService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspaceService
	}
	return nil
}
