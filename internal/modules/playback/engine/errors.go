package engine

import "errors"

// Errors returned by navigation queries.
var (
	// ErrNoQueue is returned when no queue snapshot has been accepted yet.
	ErrNoQueue = errors.New("no queue held")

	// ErrIndexOutOfRange is returned when an explicit seek names an index
	// outside the effective sequence. Unlike protocol reconciliation, which
	// clamps, an explicit request is never silently adjusted.
	ErrIndexOutOfRange = errors.New("index out of range")
)
