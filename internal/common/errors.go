// Package common defines shared constants and sentinel errors used across
// the client and server layers of FreePanel. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrDuplicateUser   = errors.New("user account already exists")
	ErrDuplicateServer = errors.New("server record already exists")

	// Workflow precondition errors, correctable by the user.
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrNotRegistered      = errors.New("not registered")
	ErrAlreadyProvisioned = errors.New("server already provisioned")

	// Resource exhaustion on the target node; retrying later may succeed.
	ErrCapacityExceeded = errors.New("node server limit reached")
	ErrNoFreeAllocation = errors.New("no free allocations on node")

	// Validation errors.
	ErrInvalidEmail = errors.New("invalid email")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
