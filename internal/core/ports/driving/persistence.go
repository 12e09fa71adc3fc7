package driving

import (
	"context"

	"github.com/custodia-labs/quire/internal/core/domain"
)

// PersistenceGateway saves and loads the workspace.
// Failures are logged and swallowed; they never reach the caller.
type PersistenceGateway interface {
	// Save writes the workspace. Errors are logged, not returned.
	Save(ctx context.Context, ws *domain.Workspace)

	// Load reads the workspace. The boolean is false when nothing usable is stored.
	Load(ctx context.Context) (*domain.Workspace, bool)

	// Clear removes the stored workspace. Errors are logged, not returned.
	Clear(ctx context.Context)

	// LastError returns the most recent swallowed error, or nil.
	LastError() error
}
