package models

import "errors"

// Sentinel errors shared across the service layers. Callers classify with
// errors.Is and wrap with %w to add context.
var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means an operation was attempted against an entity in
	// the wrong lifecycle state, e.g. completing a game that never started.
	ErrInvalidState = errors.New("invalid state")

	// ErrSeedMismatch means a revealed server seed does not hash to the
	// published commitment.
	ErrSeedMismatch = errors.New("seed mismatch")

	// ErrTransportClosed means a streaming client went away mid-write.
	ErrTransportClosed = errors.New("transport closed")

	// ErrPersistenceFailure wraps storage-layer failures the caller may retry.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrTimeout means an operation ran out of its time budget.
	ErrTimeout = errors.New("timeout")
)
