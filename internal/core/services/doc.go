// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The workspace core lives here:
//
//   - EntityFactory: builds blocks, pages and the welcome workspace
//   - WorkspaceStore: the in-memory source of truth and its mutations
//   - PersistenceGateway: save/load/clear over a driven.KeyValueStore
//   - Debouncer and Session: autosave and lifecycle
//
// Services are pure Go with no CGO.
package services
