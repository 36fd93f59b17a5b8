// Package service provides the application-level task service: validation,
// persistence, and observer fan-out for every task operation.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to
// HTTP status codes.
var (
	// ErrTaskNotFound indicates the referenced task has no record.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotOwned indicates a task is owned by a different user than the
	// one attempting the mutation.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("task is owned by another user")
)
