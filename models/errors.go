package models

import "errors"

// Sentinel errors shared across packages. Callers match with errors.Is; the
// HTTP layer translates them into API error responses.
var (
	// ErrNotConfigured is returned when no base directory has been set.
	ErrNotConfigured = errors.New("base directory is not configured")

	// ErrInvalidPath is returned when a configured or requested path does not
	// exist, is not a directory, or is otherwise unusable.
	ErrInvalidPath = errors.New("invalid path")

	// ErrImageNotFound is returned when a filename cannot be found in the
	// directory (or directories) an operation expects it in.
	ErrImageNotFound = errors.New("image not found")

	// ErrUnauthorized is returned by the access gate on a secret or token
	// mismatch.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrLocationConflict is returned when the same filename is present in
	// more than one lifecycle directory at once. This indicates external
	// interference; the engine refuses to guess which copy is authoritative.
	ErrLocationConflict = errors.New("image present in multiple lifecycle directories")
)
