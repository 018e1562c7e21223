package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnregisteredAgent is returned when an agent acts before registering.
	ErrUnregisteredAgent = errors.New("unregistered agent")
	// ErrMissingContent is returned when argue, rebut or judge carries no content.
	ErrMissingContent = errors.New("missing content")
	// ErrUnknownAction is returned when the boundary is asked for an operation it does not know.
	ErrUnknownAction = errors.New("unknown action")
	// ErrPolicyBlocked is returned when the tool policy rejects a call.
	ErrPolicyBlocked = errors.New("blocked by policy")
)

// Error is a tagged failure whose message is shown to the caller verbatim.
// errors.Is matches it against its Kind sentinel.
type Error struct {
	Kind    error
	Message string
}

// Errorf builds an Error of the given kind.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}
