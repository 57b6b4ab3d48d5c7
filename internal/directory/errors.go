package directory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformed     = errors.New("malformed user directory")
	ErrDuplicateUser = errors.New("duplicate username in directory")

	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserInactive    = errors.New("user is inactive")
	ErrUserExpired     = errors.New("user access expired")
	ErrEmptyUsername   = errors.New("username is required")
)

// Reason turns a validation error into the message shown at the login
// prompt. Unknown users and wrong passwords share one message.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyUsername):
		return "Please enter a username."
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidPassword):
		return "Invalid username or password."
	case errors.Is(err, ErrUserInactive):
		return "This account is disabled."
	case errors.Is(err, ErrUserExpired):
		return "This account has expired."
	default:
		return fmt.Sprintf("Sign-in failed: %s", strings.TrimSpace(err.Error()))
	}
}
