package client

import (
	"errors"

	"google.golang.org/grpc/codes"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// CommandError is a command the server rejected. Message is the notice to
// show the user.
type CommandError struct {
	Code    codes.Code
	Message string
}

func (e *CommandError) Error() string { return e.Message }

// Is matches ErrUnavailable for transient failures.
func (e *CommandError) Is(target error) bool {
	if target != ErrUnavailable {
		return false
	}
	return e.Code == codes.Unavailable || e.Code == codes.DeadlineExceeded
}
