package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrSuperseded = errors.New("team selection superseded by a newer one")
)
