package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/cloudtask-api/internal/authz"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers use errors.Is() to check for specific conditions; the API layer
// maps them to HTTP status codes.
var (
	// ErrProjectNotFound indicates that the project does not exist.
	// API layer maps this to HTTP 404 Not Found.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound indicates that the task does not exist.
	// API layer maps this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrForbidden indicates the actor is authenticated but not authorized
	// for the target record. Distinct from the not-found errors: the caller
	// learns the record exists but is off limits.
	// API layer maps this to HTTP 403 Forbidden.
	ErrForbidden = authz.ErrForbidden
)

// AccessError wraps unexpected errors from the access services with
// operation context. Known sentinel errors are never wrapped.
type AccessError struct {
	Entity    string // The entity type (e.g., "project", "task")
	Operation string // The operation that failed (e.g., "create", "get")
	Err       error  // The underlying error
}

// Error implements the error interface for AccessError.
func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Entity, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *AccessError) Unwrap() error {
	return e.Err
}

// newAccessError wraps err with entity/operation context, passing sentinel
// errors through unchanged and translating store-level not-found errors to
// their service-level equivalents.
func newAccessError(entity, operation string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrProjectNotFound),
		errors.Is(err, ErrTaskNotFound):
		return err
	case errors.Is(err, store.ErrProjectNotFound):
		return ErrProjectNotFound
	case errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	}

	return &AccessError{Entity: entity, Operation: operation, Err: err}
}
