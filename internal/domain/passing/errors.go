package passing

import (
	"errors"
)

// ErrInvalidEvent marks an event that violates its contract. Aggregate skips
// such events and counts them in Graph.Invalid.
var ErrInvalidEvent = errors.New("invalid pass event")

// Reasons an event did not contribute to a graph. They double as metric labels.
const (
	ReasonMissingPlayer    = "missing_player"
	ReasonNotPass          = "not_pass"
	ReasonMissingTimestamp = "missing_timestamp"
	ReasonUnknownType      = "unknown_type"
)
