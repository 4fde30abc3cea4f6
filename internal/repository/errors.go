package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when an insert loses a uniqueness race,
	// e.g. two webhook deliveries creating the same transaction.
	ErrConflict = errors.New("duplicate entity")
)
