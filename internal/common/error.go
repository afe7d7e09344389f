// Package common defines shared constants and sentinel errors used across
// corechat components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors.
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateIdentity = errors.New("username or email already exists")

	// Auth errors. Unknown identity and wrong password both map to
	// ErrInvalidCredentials.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")

	// Token errors (invalid signature, malformed, expired).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Completion collaborator failure.
	ErrCompletionFailure = errors.New("completion provider failure")
)
