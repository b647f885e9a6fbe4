package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrCollect = errors.New("metrics collect failed")
)

// Gather collects the current state of the custom registry, wrapping any
// failure with ErrCollect.
func Gather() (int, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, errors.Join(ErrCollect, err)
	}
	return len(families), nil
}
