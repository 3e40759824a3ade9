package application

import "errors"

var (
	// client errors, 400
	ErrInvalidEmailFormat    = errors.New("invalid email format")
	ErrInvalidPasswordFormat = errors.New("invalid password format: 8-16 characters with a digit, a lowercase and an uppercase letter")
	ErrPasswordTooLong       = errors.New("password must be at most 72 bytes")

	// 409
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// update target missing, 404
	ErrUserNotFound = errors.New("user not found")
)
