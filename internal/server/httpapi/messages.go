package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/nexusauth/internal/common"
	"github.com/dmitrijs2005/nexusauth/internal/validation"
)

const (
	msgRegistered       = "Registration successful! Please check your email for verification instructions."
	msgLoggedIn         = "Login successful!"
	msgVerified         = "Email verified successfully!"
	msgInvalidJSON      = "Invalid JSON input"
	msgInvalidAction    = "Invalid action"
	msgUsernameTaken    = "Username already exists"
	msgEmailTaken       = "Email already registered"
	msgInvalidCreds     = "Invalid username or password"
	msgNotVerified      = "Please verify your email address before logging in"
	msgInvalidToken     = "Invalid or expired verification token"
	msgUserNotFound     = "User not found"
	msgSaveFailed       = "Failed to save user data"
	msgReadFailed       = "Failed to read user data"
	msgInternal         = "Internal server error"
	msgMethodNotAllowed = "Method not allowed"
	msgTooManyRequests  = "Too many requests. Please slow down."
)

const (
	actionRegister    = "register"
	actionLogin       = "login"
	actionVerify      = "verify"
	actionGetUserData = "getUserData"
	actionTest        = "test"
)

// validationData is the data payload of a failed form.
type validationData struct {
	Errors []validation.FieldError `json:"errors"`
}

// failure maps a service error to the response message and optional data.
// Storage failures read differently for the read-only action.
func failure(action string, err error) (string, any) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		return ve.Error(), validationData{Errors: ve.Fields}
	case errors.Is(err, common.ErrDuplicateUsername):
		return msgUsernameTaken, nil
	case errors.Is(err, common.ErrDuplicateEmail):
		return msgEmailTaken, nil
	case errors.Is(err, common.ErrInvalidCredentials):
		return msgInvalidCreds, nil
	case errors.Is(err, common.ErrNotVerified):
		return msgNotVerified, nil
	case errors.Is(err, common.ErrInvalidToken):
		return msgInvalidToken, nil
	case errors.Is(err, common.ErrorNotFound):
		return msgUserNotFound, nil
	case errors.Is(err, common.ErrUnknownAction):
		return msgInvalidAction, nil
	case errors.Is(err, common.ErrInvalidInput):
		return msgInvalidJSON, nil
	case errors.Is(err, common.ErrStorage):
		if action == actionGetUserData {
			return msgReadFailed, nil
		}
		return msgSaveFailed, nil
	default:
		return msgInternal, nil
	}
}
