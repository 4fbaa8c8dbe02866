package module

import (
	"errors"
	"fmt"

	"github.com/Azure/aace/pkg/config"
)

// UserError caller mistake, 4xx-equivalent. The message is safe to return
// verbatim.
type UserError struct {
	msg string
}

func NewUserError(msg string) *UserError {
	return &UserError{msg: msg}
}

func (e *UserError) Error() string {
	return e.msg
}

// ServerError configuration or platform failure, 5xx-equivalent. Callers
// only ever see the generic message; the cause goes to the log.
type ServerError struct {
	msg   string
	cause error
}

func NewServerError(msg string, cause error) *ServerError {
	return &ServerError{msg: msg, cause: cause}
}

func (e *ServerError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *ServerError) Unwrap() error {
	return e.cause
}

var (
	ErrNotFound              = NewUserError(config.NOTFOUND)
	ErrOperationNotSupported = NewUserError(config.NOTSUPPORTED)

	// the wait window elapsed without a terminal status
	ErrWaitTimeout = errors.New("operation wait timed out")
)

// IsUserError report whether err should map to a 4xx response.
func IsUserError(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr)
}
