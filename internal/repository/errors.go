package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrNotSupported is returned when a backend cannot serve an optional
	// query (e.g. listing payments by status without a status index).
	ErrNotSupported = errors.New("operation not supported by this backend")
)
