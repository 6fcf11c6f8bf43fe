// Package common defines shared constants and sentinel errors used across
// client and server layers of nexusauth. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrStorage    = errors.New("storage failure")

	// ErrDuplicateKey is matched by both duplicate errors below.
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrDuplicateUsername = fmt.Errorf("%w: username", ErrDuplicateKey)
	ErrDuplicateEmail    = fmt.Errorf("%w: email", ErrDuplicateKey)

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")

	// Verification token did not match any account.
	ErrInvalidToken = errors.New("invalid token")

	// Transport-level request errors.
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidInput  = errors.New("invalid input")
)
