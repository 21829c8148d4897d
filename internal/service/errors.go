package service

import "errors"

var (
	// ErrUnauthorized marks an action the actor is not allowed to perform.
	ErrUnauthorized = errors.New("not allowed")
	// ErrInvalidTransition marks a status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrValidation marks rejected input. Wrap it with the field detail.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
