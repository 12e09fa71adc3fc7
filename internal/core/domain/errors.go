package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested page or block does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity with the same id already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown block type or storage backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrProtectedPage indicates an attempt to delete the welcome page.
	ErrProtectedPage = errors.New("page is protected")

	// ErrStorageUnavailable indicates the configured backend could not be opened.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
