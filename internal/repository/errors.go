// Package repository defines sentinel error values reused across the
// repositories. Handlers and middleware compare against these with
// errors.Is to decide the HTTP status for a failure; the repositories
// themselves never pick status codes.
package repository

import "errors"

// ErrEmailExists is returned when inserting a user whose email is
// already taken (unique constraint on users.email). Handlers
// translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrResumeNotFound is returned when the requested resume does not
// exist. Handlers translate it into HTTP 404.
var ErrResumeNotFound = errors.New("resume not found")

// ErrTokenNotFound is returned when a user has no stored refresh
// token row. The refresh middleware treats it the same as a hash
// mismatch: the presented token has been discarded.
var ErrTokenNotFound = errors.New("refresh token not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resume they do not own. Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")
