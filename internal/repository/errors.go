// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Owner-scoped
// lookups key on (id, user_id) in a single statement, so a wrong id
// and a right id owned by someone else are indistinguishable here on
// purpose: handlers translate both into the same HTTP 404 and never
// leak whether another user's note exists.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registration collides with an
// already-registered email address. Handlers translate this into an
// HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
