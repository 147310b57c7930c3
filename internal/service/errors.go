package service

import "errors"

// Common service-level errors
var (
	// ErrInvalidCredentials indicates the email/password pair did not match
	// a known account. Login failures are deliberately indistinguishable
	// between unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrQuizNotFound indicates a quiz attempt ID that doesn't match a live
	// attempt. Attempts are held in memory; a restart invalidates them.
	ErrQuizNotFound = errors.New("quiz attempt not found")
)
