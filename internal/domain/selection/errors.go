package selection

import (
	"errors"
)

// Sentinel errors for interaction dispatch.
var (
	// ErrInteractionOutOfRange means the node id is not in the current graph,
	// usually because the graph was rebuilt after the frame was drawn.
	ErrInteractionOutOfRange = errors.New("interaction references unknown node")
	ErrUnknownInteraction    = errors.New("unknown interaction kind")
)
