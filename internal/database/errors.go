package database

import "errors"

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNotAvailable means the car is already reserved for an overlapping
	// date range.
	ErrNotAvailable = errors.New("car not available for the requested dates")

	// ErrConflict means a mutation is blocked by existing dependents.
	ErrConflict = errors.New("operation blocked by dependent records")

	// ErrDuplicate means a uniqueness constraint was violated.
	ErrDuplicate = errors.New("record already exists")

	// ErrConcurrentModification means a versioned update lost a race.
	ErrConcurrentModification = errors.New("record was modified concurrently")
)
