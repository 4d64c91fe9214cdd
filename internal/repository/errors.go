// Package repository defines the in-memory stores and the error values
// shared between them.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrNoteNotFound is returned both for notes that never existed
// and for notes owned by another tenant, while ErrNoteLimitReached
// signals that a Free tenant already holds its maximum number of notes.
package repository

import "errors"

// ErrUserNotFound is returned when no seeded user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrTenantNotFound is returned when the tenant slug is unknown.
var ErrTenantNotFound = errors.New("tenant not found")

// ErrNoteNotFound is returned when a note does not exist inside the
// caller's tenant.  Handlers should translate this into an HTTP 404
// response.
var ErrNoteNotFound = errors.New("note not found")

// ErrNoteLimitReached is returned when a create would push a tenant past
// its plan's note limit.  Handlers should translate this into an HTTP
// 403 response.
var ErrNoteLimitReached = errors.New("note limit reached")
