package repositories

import "errors"

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrConflict is returned when a conditional status transition finds the
	// record in a different state than expected, i.e. a concurrent request
	// won the race. Retryable by the caller after re-reading current state.
	ErrConflict = errors.New("record state changed concurrently, transition rejected")
)
