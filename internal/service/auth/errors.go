package auth

import "errors"

// Sentinel errors returned by token validation.
var (
	// ErrInvalidToken is returned when a token is malformed or its
	// signature does not verify.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid is returned when a token's nbf claim is in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken is returned when a request carries no token at all.
	ErrMissingToken = errors.New("authentication token is missing")
)
