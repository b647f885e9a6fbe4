package ufa

import (
	"errors"
)

// Sentinel error kinds for the stats API client.
var (
	ErrUpstream     = errors.New("stats api request failed")
	ErrDecode       = errors.New("stats api response malformed")
	ErrTeamNotFound = errors.New("team not found")
)
