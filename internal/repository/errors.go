package repository

import "errors"

var (
	// ErrNotFound indicates an entity was not located.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail indicates the email unique constraint was violated.
	ErrDuplicateEmail = errors.New("repository: email already exists")
	// ErrDuplicateUsername indicates the username unique constraint was violated.
	ErrDuplicateUsername = errors.New("repository: username already exists")
	// ErrDuplicateApplication indicates the (job, email) unique constraint was violated.
	ErrDuplicateApplication = errors.New("repository: application already exists")
)
