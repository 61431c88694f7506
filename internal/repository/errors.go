package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write loses a uniqueness race,
	// e.g. two writers assigning the same slot at once.
	ErrConflict = errors.New("conflict: entity was modified by another writer")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
