// Package service holds the application logic that sits on top of the
// repository: the board mutation service, authentication, card filters
// and workspace management.
package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// ValidationError reports a field that does not meet its constraints.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }
