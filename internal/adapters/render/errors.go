package render

import (
	"errors"
)

// Sentinel errors for rendering.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrRender        = errors.New("render failed")
)
