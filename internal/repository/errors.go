// Package repository defines sentinel error values shared across the data
// access layer. Handlers and services compare against these to map storage
// outcomes onto HTTP responses without leaking driver-specific codes.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no live row. Soft-deleted
// rows count as absent.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when user creation collides with the unique
// email index.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when an insert or update violates a uniqueness
// or state constraint other than the email index (e.g. applying twice to
// the same job). Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when a repository-level ownership filter
// rejects the caller. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")
