package repository

import "errors"

// Sentinel kinds for session errors.
var (
	ErrNotFound  = errors.New("session not found")
	ErrInvalidID = errors.New("invalid session id")
)
