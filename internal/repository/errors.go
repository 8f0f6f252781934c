// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrUsernameExists signals that a registration lost the
// uniqueness race on users.username, while the *NotFound values let
// handlers answer 404 instead of a generic server error.
package repository

import "errors"

// ErrUsernameExists is returned when an insert into users violates the
// UNIQUE KEY on username. The database enforces uniqueness, so two
// concurrent registrations with the same username are resolved here and
// not by an application-level check. Handlers translate this into an
// HTTP 409 response.
var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound is returned when a user cannot be found in the DB.
var ErrUserNotFound = errors.New("user not found")

// ErrTodoNotFound is returned when a todo cannot be found in the DB.
var ErrTodoNotFound = errors.New("todo not found")

// ErrCommentNotFound is returned when a comment cannot be found in the DB.
var ErrCommentNotFound = errors.New("comment not found")
