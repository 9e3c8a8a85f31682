package auth

import "errors"

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrTokenNotFound indicates an unknown or expired bearer token.
	ErrTokenNotFound = errors.New("auth: token not found")
)
