// internal/services/errors.go
package services

import "errors"

// Error kinds surfaced by the custody engine. Every service failure wraps one
// of these so handlers can map them with errors.Is; a failed call leaves all
// state unchanged.
var (
	// ErrInvalidInput: empty or malformed descriptive fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound: id outside the valid [1, counter] range.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized: caller's participant is missing, wrong class, or inactive.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition: current stage does not match the required
	// predecessor for the requested operation.
	ErrInvalidTransition = errors.New("invalid transition")
)
