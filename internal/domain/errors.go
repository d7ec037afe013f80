package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRole is returned when a user role is not a known role.
	ErrInvalidRole = errors.New("invalid user role")

	// ErrInvalidTaskStatus is returned when a task status is not valid.
	ErrInvalidTaskStatus = errors.New("invalid task status")
)
