package models

import "errors"

// Error kinds returned by the catalog. Callers wrap them with context and the
// HTTP boundary maps them to status codes with errors.Is.
var (
	// ErrInvalidArgument signals a malformed identifier or field value.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingField signals a required creation field was not supplied.
	ErrMissingField = errors.New("missing required field")
	// ErrNotFound signals a well-formed id that does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrUnprocessableReference signals a foreign key that does not resolve.
	ErrUnprocessableReference = errors.New("unprocessable reference")
	// ErrConflict signals a duplicate id or unique field.
	ErrConflict = errors.New("conflict")
	// ErrForbidden signals a credential check that failed.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized signals a missing credential.
	ErrUnauthorized = errors.New("unauthorized")
)
