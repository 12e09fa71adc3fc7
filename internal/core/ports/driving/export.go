package driving

import "context"

// ExportService converts the workspace to and from external formats.
type ExportService interface {
	// Markdown renders one page as Markdown.
	Markdown(pageID string) (string, error)

	// JSON returns the persisted payload of the current workspace.
	JSON() ([]byte, error)

	// Import replaces the workspace with a decoded payload.
	Import(ctx context.Context, data []byte) error
}
