// Package apperr defines the sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound is returned when an id or name does not resolve to a live row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on optimistic concurrency failures.
	ErrConflict = errors.New("conflict")
	// ErrInvalid is returned when an argument is outside its allowed domain
	// (e.g. a review rating outside 0..5).
	ErrInvalid = errors.New("invalid argument")
)
