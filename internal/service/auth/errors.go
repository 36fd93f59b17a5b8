// Package auth provides JWT-based identity extraction for the API layer.
// Registration and login flows live outside this service; it only issues
// and validates the tokens the boundary needs to identify callers.
package auth

import "errors"

// Common authentication errors.
var (
	// ErrInvalidToken indicates the token is malformed, has a bad
	// signature, or carries unexpected claims.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")
)
