package policy

import "errors"

// Shared error taxonomy for the lifecycle engine and its callers.
// Handlers translate these into HTTP status codes:
// ErrNotFound -> 404, ErrConflict -> 409, ErrInvalidArgument -> 400.
var (
	ErrNotFound        = errors.New("target record not found")
	ErrConflict        = errors.New("request has already been processed")
	ErrInvalidArgument = errors.New("invalid argument")
)
