package client

import (
	"errors"

	"github.com/dmitrijs2005/nexusauth/internal/validation"
)

var ErrUnavailable = errors.New("server unavailable")

// UnavailableMessage is what the user is told when ErrUnavailable occurs.
const UnavailableMessage = "Server connection failed. Please try again."

// APIError is a success=false answer from the server.
type APIError struct {
	Message     string
	FieldErrors []validation.FieldError
}

func (e *APIError) Error() string {
	return e.Message
}

// msgUserNotFound is the server's answer to getUserData for an unknown
// username.
const msgUserNotFound = "User not found"

// IsUserNotFound reports whether err is the server saying the account does
// not exist.
func IsUserNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Message == msgUserNotFound
}
