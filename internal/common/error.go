// Package common defines shared helpers and sentinel errors used across
// the authd components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidCriteria = errors.New("invalid criteria")
	ErrInvalidField    = errors.New("invalid field")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors surfaced before any mutation is attempted.
	ErrInvalidInput = errors.New("invalid input")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")

	// ErrHashingFailure marks a password-hash computation that failed,
	// kept distinct so callers do not mistake it for bad input.
	ErrHashingFailure = errors.New("password hashing failed")
)
