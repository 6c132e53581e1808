package domain

import "errors"

// Error kinds. Handlers map them to HTTP status codes.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidID          = errors.New("invalid id")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotFound           = errors.New("not found")
	ErrTimeout            = errors.New("timeout")
)

// Error carries a client-facing message for one of the error kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError returns an error that matches kind with errors.Is and reports msg to the client.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Message returns the client-facing message attached to err, or fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
