package fieldline

import "errors"

// Sentinel errors for arena operations.
var (
	// ErrNilTrajectory indicates a nil *Trajectory was passed to the arena.
	ErrNilTrajectory = errors.New("fieldline: trajectory is nil")

	// ErrDuplicateID indicates an insert with an ID that is already live.
	ErrDuplicateID = errors.New("fieldline: duplicate trajectory id")

	// ErrUnknownID indicates an operation referenced an ID that is not live.
	ErrUnknownID = errors.New("fieldline: unknown trajectory id")

	// ErrNoID indicates the zero ID was used where a real one is required.
	ErrNoID = errors.New("fieldline: trajectory id is zero")
)
