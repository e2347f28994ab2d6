package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate")

	// ErrStateChanged is returned by conditional updates whose precondition no longer holds.
	ErrStateChanged = errors.New("state changed")

	// ErrLastAdmin is returned when a write would leave no admin account.
	ErrLastAdmin = errors.New("last admin")
)
