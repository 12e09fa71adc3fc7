// Package file provides the TOML-backed driven.ConfigStore.
//
// Settings are addressed with dot-notation keys ("storage.backend") and
// written as nested TOML tables:
//
//	[storage]
//	backend = "sqlite"
//
//	[autosave]
//	delay_ms = 500
package file
